package mcpsrv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/catadmin/catalog"
	"github.com/qyinm/catadmin/mcpsrv/dto"
	"github.com/qyinm/catadmin/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

type categoryListArgs struct {
	Query  string `json:"query,omitempty" jsonschema:"Optional case-insensitive name filter"`
	Order  string `json:"order,omitempty" jsonschema:"Sort order: asc (default) or desc"`
	Offset int    `json:"offset,omitempty" jsonschema:"Optional pagination offset"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Optional page size limit"`
}

type productListArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Category id; defaults to the configured category"`
	Query    string `json:"query,omitempty" jsonschema:"Optional case-insensitive title filter"`
	Order    string `json:"order,omitempty" jsonschema:"Sort order: asc (default) or desc"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Optional maximum number of products"`
}

type productAddArgs struct {
	Title       string `json:"title" jsonschema:"Product title"`
	Description string `json:"description,omitempty" jsonschema:"Product description"`
	Price       string `json:"price,omitempty" jsonschema:"Decimal price; empty is 0, anything unparsable is sent as null"`
}

type productRenameArgs struct {
	ID    int    `json:"id" jsonschema:"Product id"`
	Title string `json:"title" jsonschema:"New product title"`
}

type productDeleteArgs struct {
	ID int `json:"id" jsonschema:"Product id"`
}

type categoryRenameArgs struct {
	ID   string `json:"id" jsonschema:"Category id"`
	Name string `json:"name" jsonschema:"New category name"`
}

type categoryDeleteArgs struct {
	ID string `json:"id" jsonschema:"Category id"`
}

type categoryListOutput struct {
	Query      string         `json:"query"`
	Order      string         `json:"order"`
	Offset     int            `json:"offset"`
	Limit      int            `json:"limit"`
	NextOffset int            `json:"next_offset"`
	HasMore    bool           `json:"has_more"`
	Total      int            `json:"total"`
	Items      []dto.Category `json:"items"`
}

type productListOutput struct {
	Category string        `json:"category"`
	Query    string        `json:"query"`
	Order    string        `json:"order"`
	Total    int           `json:"total"`
	Items    []dto.Product `json:"items"`
}

type productOutput struct {
	Item dto.Product `json:"item"`
}

type categoryOutput struct {
	Item dto.Category `json:"item"`
}

type deleteOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ServerOptions struct {
	EnableAdmin bool
	APIKey      string
	// Category is used by product_list when no category is given.
	Category string
	Locale   language.Tag
	Logger   *logrus.Logger
	// Pending is shared with other users of the same source. A private set
	// is created when nil.
	Pending *catalog.Pending
}

// toolset binds the tool handlers to one catalog source.
type toolset struct {
	source   types.CatalogSource
	category string
	locale   language.Tag
	pending  *catalog.Pending
	log      *logrus.Entry
}

func newToolset(source types.CatalogSource, opts *ServerOptions) *toolset {
	if opts == nil {
		opts = &ServerOptions{}
	}
	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = "smartphones"
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	pending := opts.Pending
	if pending == nil {
		pending = catalog.NewPending()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &toolset{
		source:   source,
		category: category,
		locale:   locale,
		pending:  pending,
		log:      logger.WithField("component", "mcp"),
	}
}

func NewServer(source types.CatalogSource, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	if opts == nil {
		opts = &ServerOptions{}
	}
	tools := newToolset(source, opts)

	server := mcp.NewServer(&mcp.Implementation{Name: "catadmin", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "category_list",
		Description: "List product categories, sorted and optionally filtered.",
	}, tools.categoryList)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "product_list",
		Description: "List the products of one category, sorted and optionally filtered.",
	}, tools.productList)

	if opts.EnableAdmin && strings.TrimSpace(opts.APIKey) != "" {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "product_add",
			Description: "Create a product (admin).",
		}, tools.productAdd)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "product_rename",
			Description: "Change a product title (admin).",
		}, tools.productRename)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "product_delete",
			Description: "Delete a product (admin).",
		}, tools.productDelete)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "category_rename",
			Description: "Change a category name (admin).",
		}, tools.categoryRename)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "category_delete",
			Description: "Delete a category (admin).",
		}, tools.categoryDelete)
	}

	return server
}

func (t *toolset) categoryList(ctx context.Context, _ *mcp.CallToolRequest, args categoryListArgs) (*mcp.CallToolResult, categoryListOutput, error) {
	asc, order, err := parseOrder(args.Order)
	if err != nil {
		return errorToolResult(err.Error()), categoryListOutput{}, nil
	}

	categories, err := t.source.ListCategories(ctx)
	if err != nil {
		t.log.WithError(err).Error("Error fetching categories")
		return errorToolResult("fetch categories failed"), categoryListOutput{}, nil
	}

	filtered := catalog.FilterCategories(catalog.SortCategories(categories, asc, t.locale), strings.TrimSpace(args.Query))

	limit := args.Limit
	if limit <= 0 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}
	offset := args.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(filtered) {
		offset = len(filtered)
	}

	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := filtered[offset:end]
	nextOffset := end
	hasMore := end < len(filtered)
	if !hasMore {
		nextOffset = -1
	}

	return nil, categoryListOutput{
		Query:      args.Query,
		Order:      order,
		Offset:     offset,
		Limit:      limit,
		NextOffset: nextOffset,
		HasMore:    hasMore,
		Total:      len(filtered),
		Items:      dto.FromCategories(page),
	}, nil
}

func (t *toolset) productList(ctx context.Context, _ *mcp.CallToolRequest, args productListArgs) (*mcp.CallToolResult, productListOutput, error) {
	asc, order, err := parseOrder(args.Order)
	if err != nil {
		return errorToolResult(err.Error()), productListOutput{}, nil
	}
	category := strings.TrimSpace(args.Category)
	if category == "" {
		category = t.category
	}

	products, err := t.source.GetCategoryProducts(ctx, category)
	if err != nil {
		t.log.WithError(err).WithField("category", category).Error("Error fetching products")
		return errorToolResult("fetch category products failed"), productListOutput{}, nil
	}

	products = catalog.FilterProducts(catalog.SortProducts(products, asc, t.locale), strings.TrimSpace(args.Query))
	products = applyLimit(products, args.Limit)

	return nil, productListOutput{
		Category: category,
		Query:    args.Query,
		Order:    order,
		Total:    len(products),
		Items:    dto.FromProducts(products),
	}, nil
}

func (t *toolset) productAdd(ctx context.Context, _ *mcp.CallToolRequest, args productAddArgs) (*mcp.CallToolResult, productOutput, error) {
	draft := types.ProductDraft{
		Title:       args.Title,
		Description: args.Description,
		Price:       catalog.ParsePrice(args.Price),
	}
	product, err := t.source.AddProduct(ctx, draft)
	if err != nil {
		t.log.WithError(err).Error("Error adding product")
		return errorToolResult("add product failed"), productOutput{}, nil
	}
	t.log.WithField("id", product.ID()).Info("Added product")
	return nil, productOutput{Item: dto.FromProduct(product)}, nil
}

func (t *toolset) productRename(ctx context.Context, _ *mcp.CallToolRequest, args productRenameArgs) (*mcp.CallToolResult, productOutput, error) {
	if args.ID <= 0 {
		return errorToolResult("id is required"), productOutput{}, nil
	}
	key := catalog.ProductKey(args.ID)
	if !t.pending.Begin(catalog.KindProduct, key) {
		return errorToolResult(fmt.Sprintf("product %d has an operation in flight", args.ID)), productOutput{}, nil
	}
	defer t.pending.Done(catalog.KindProduct, key)

	product, err := t.source.UpdateProductTitle(ctx, args.ID, args.Title)
	if err != nil {
		t.log.WithError(err).WithField("id", args.ID).Error("Error updating product")
		return errorToolResult("update product failed"), productOutput{}, nil
	}
	t.log.WithField("id", args.ID).Info("Updated product")
	return nil, productOutput{Item: dto.FromProduct(product)}, nil
}

func (t *toolset) productDelete(ctx context.Context, _ *mcp.CallToolRequest, args productDeleteArgs) (*mcp.CallToolResult, deleteOutput, error) {
	if args.ID <= 0 {
		return errorToolResult("id is required"), deleteOutput{}, nil
	}
	key := catalog.ProductKey(args.ID)
	if !t.pending.Begin(catalog.KindProduct, key) {
		return errorToolResult(fmt.Sprintf("product %d has an operation in flight", args.ID)), deleteOutput{}, nil
	}
	defer t.pending.Done(catalog.KindProduct, key)

	if err := t.source.DeleteProduct(ctx, args.ID); err != nil {
		t.log.WithError(err).WithField("id", args.ID).Error("Error deleting product")
		return errorToolResult("delete product failed"), deleteOutput{}, nil
	}
	t.log.WithField("id", args.ID).Info("Deleted product")
	return nil, deleteOutput{ID: key, Status: "deleted"}, nil
}

func (t *toolset) categoryRename(ctx context.Context, _ *mcp.CallToolRequest, args categoryRenameArgs) (*mcp.CallToolResult, categoryOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return errorToolResult("id is required"), categoryOutput{}, nil
	}
	if !t.pending.Begin(catalog.KindCategory, id) {
		return errorToolResult(fmt.Sprintf("category %q has an operation in flight", id)), categoryOutput{}, nil
	}
	defer t.pending.Done(catalog.KindCategory, id)

	category, err := t.source.UpdateCategoryName(ctx, id, args.Name)
	if err != nil {
		t.log.WithError(err).WithField("id", id).Error("Error updating category")
		return errorToolResult("update category failed"), categoryOutput{}, nil
	}
	t.log.WithField("id", id).Info("Updated category")
	return nil, categoryOutput{Item: dto.FromCategory(category)}, nil
}

func (t *toolset) categoryDelete(ctx context.Context, _ *mcp.CallToolRequest, args categoryDeleteArgs) (*mcp.CallToolResult, deleteOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return errorToolResult("id is required"), deleteOutput{}, nil
	}
	if !t.pending.Begin(catalog.KindCategory, id) {
		return errorToolResult(fmt.Sprintf("category %q has an operation in flight", id)), deleteOutput{}, nil
	}
	defer t.pending.Done(catalog.KindCategory, id)

	if err := t.source.DeleteCategory(ctx, id); err != nil {
		t.log.WithError(err).WithField("id", id).Error("Error deleting category")
		return errorToolResult("delete category failed"), deleteOutput{}, nil
	}
	t.log.WithField("id", id).Info("Deleted category")
	return nil, deleteOutput{ID: id, Status: "deleted"}, nil
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func applyLimit(items []types.Product, limit int) []types.Product {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}

func parseOrder(raw string) (bool, string, error) {
	v := strings.TrimSpace(strings.ToLower(raw))
	switch v {
	case "", "asc", "ascending":
		return true, "asc", nil
	case "desc", "descending":
		return false, "desc", nil
	default:
		return true, "", fmt.Errorf("invalid order %q; expected asc|desc", raw)
	}
}
