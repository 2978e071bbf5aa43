package dummyjson

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/qyinm/catadmin/types"
	"github.com/shopspring/decimal"
)

// GetCategoryProducts fetches the products filed under category.
func (c *Client) GetCategoryProducts(ctx context.Context, category string) ([]types.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/products/category/"+url.PathEscape(category), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch category products: %w", err)
	}
	products, err := ParseProductList(data)
	if err != nil {
		return nil, fmt.Errorf("parse category products: %w", err)
	}
	return products, nil
}

type addProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}

// AddProduct creates a product. The demo API echoes the payload with a new
// id but does not persist it.
func (c *Client) AddProduct(ctx context.Context, draft types.ProductDraft) (types.Product, error) {
	payload := addProductRequest{
		Title:       draft.Title,
		Description: draft.Description,
	}
	// a price too large for a float64 goes out as null
	if draft.Price != nil {
		if price := draft.Price.InexactFloat64(); !math.IsInf(price, 0) && !math.IsNaN(price) {
			payload.Price = &price
		}
	}

	data, err := c.do(ctx, http.MethodPost, "/products/add", payload)
	if err != nil {
		return types.Product{}, fmt.Errorf("add product: %w", err)
	}
	product, err := ParseProduct(data)
	if err != nil {
		return types.Product{}, fmt.Errorf("parse added product: %w", err)
	}
	return product, nil
}

// UpdateProductTitle renames product id and returns the server's copy.
func (c *Client) UpdateProductTitle(ctx context.Context, id int, title string) (types.Product, error) {
	payload := map[string]string{"title": title}
	data, err := c.do(ctx, http.MethodPut, "/products/"+strconv.Itoa(id), payload)
	if err != nil {
		return types.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	product, err := ParseProduct(data)
	if err != nil {
		return types.Product{}, fmt.Errorf("parse updated product: %w", err)
	}
	return product, nil
}

// DeleteProduct deletes product id. The response body is ignored.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	if _, err := c.do(ctx, http.MethodDelete, "/products/"+strconv.Itoa(id), nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// knownProductFields are decoded into typed Product fields; everything else
// is kept as raw attributes.
var knownProductFields = map[string]struct{}{
	"id":          {},
	"title":       {},
	"description": {},
	"price":       {},
	"category":    {},
}

// ParseProduct decodes a single product object.
func ParseProduct(data []byte) (types.Product, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return types.Product{}, fmt.Errorf("decode product: %w", err)
	}
	if fields == nil {
		return types.Product{}, fmt.Errorf("decode product: not an object")
	}

	var (
		id          int
		title       string
		description string
		price       decimal.Decimal
		category    string
	)
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			return types.Product{}, fmt.Errorf("decode product id: %w", err)
		}
	}
	if raw, ok := fields["title"]; ok {
		_ = json.Unmarshal(raw, &title)
	}
	if raw, ok := fields["description"]; ok {
		_ = json.Unmarshal(raw, &description)
	}
	if raw, ok := fields["price"]; ok {
		if err := price.UnmarshalJSON(raw); err != nil {
			return types.Product{}, fmt.Errorf("decode product price: %w", err)
		}
	}
	if raw, ok := fields["category"]; ok {
		_ = json.Unmarshal(raw, &category)
	}

	attrs := make(map[string]json.RawMessage)
	for k, v := range fields {
		if _, known := knownProductFields[k]; known {
			continue
		}
		attrs[k] = v
	}

	product := types.NewProduct(id, title, description, price, category)
	if len(attrs) > 0 {
		product = product.WithAttributes(attrs)
	}
	return product, nil
}

// ParseProductList decodes a {"products": [...]} envelope.
func ParseProductList(data []byte) ([]types.Product, error) {
	var envelope struct {
		Products []json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}

	products := make([]types.Product, 0, len(envelope.Products))
	for i, raw := range envelope.Products {
		p, err := ParseProduct(raw)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}
