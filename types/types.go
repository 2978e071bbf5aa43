package types

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"

	"github.com/charmbracelet/bubbles/list"
	"github.com/shopspring/decimal"
)

// Category is a product grouping label. The remote listing returns bare
// strings; NewCategoryFromName promotes them so id and name are equal.
type Category struct {
	id   string
	name string
}

// NewCategory creates a Category with an explicit id.
func NewCategory(id, name string) Category {
	return Category{id: id, name: name}
}

// NewCategoryFromName creates a Category identified by its name.
func NewCategoryFromName(name string) Category {
	return Category{id: name, name: name}
}

func (c Category) ID() string   { return c.id }
func (c Category) Name() string { return c.name }

// list.Item interface implementation
func (c Category) Title() string       { return c.name }
func (c Category) Description() string { return c.id }
func (c Category) FilterValue() string { return c.name }

var _ list.Item = Category{}

// Product is a catalog entry as echoed by the remote API. Fields the admin
// console does not interpret are kept verbatim in attributes.
type Product struct {
	id          int
	title       string
	description string
	price       decimal.Decimal
	category    string
	attributes  map[string]json.RawMessage
}

// NewProduct creates a new Product with the given fields
func NewProduct(id int, title, description string, price decimal.Decimal, category string) Product {
	return Product{
		id:          id,
		title:       title,
		description: description,
		price:       price,
		category:    category,
	}
}

// WithAttributes returns a copy of p carrying the given raw attributes.
func (p Product) WithAttributes(attrs map[string]json.RawMessage) Product {
	p.attributes = maps.Clone(attrs)
	return p
}

// Getters for Product fields
func (p Product) ID() int                                { return p.id }
func (p Product) Price() decimal.Decimal                 { return p.price }
func (p Product) Category() string                       { return p.category }
func (p Product) Attributes() map[string]json.RawMessage { return maps.Clone(p.attributes) }

// list.Item interface implementation
func (p Product) Title() string       { return p.title }
func (p Product) Description() string { return p.description }
func (p Product) FilterValue() string { return p.title }

var _ list.Item = Product{}

// Equal reports whether p and o carry the same values, comparing price
// numerically and attributes byte for byte.
func (p Product) Equal(o Product) bool {
	if p.id != o.id || p.title != o.title || p.description != o.description || p.category != o.category {
		return false
	}
	if !p.price.Equal(o.price) {
		return false
	}
	return maps.EqualFunc(p.attributes, o.attributes, func(a, b json.RawMessage) bool {
		return bytes.Equal(a, b)
	})
}

// ProductDraft is the payload for creating a product. A nil Price is sent
// as JSON null.
type ProductDraft struct {
	Title       string
	Description string
	Price       *decimal.Decimal
}

// CatalogSource is the core abstraction for catalog access.
// No bubbletea dependency, so the MCP server calls it directly.
type CatalogSource interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryProducts(ctx context.Context, category string) ([]Product, error)
	AddProduct(ctx context.Context, draft ProductDraft) (Product, error)
	UpdateProductTitle(ctx context.Context, id int, title string) (Product, error)
	DeleteProduct(ctx context.Context, id int) error
	UpdateCategoryName(ctx context.Context, id, name string) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
