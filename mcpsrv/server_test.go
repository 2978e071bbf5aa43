package mcpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/catadmin/catalog"
	"github.com/qyinm/catadmin/types"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	mu sync.Mutex

	categories []types.Category
	products   []types.Product

	failCategories bool
	failProducts   bool
	failMutations  bool

	gotCategory string
	drafts      []types.ProductDraft
	deleted     []int
	deletedCats []string
	renamed     map[int]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		categories: []types.Category{
			types.NewCategoryFromName("smartphones"),
			types.NewCategoryFromName("laptops"),
			types.NewCategoryFromName("beauty"),
		},
		products: []types.Product{
			types.NewProduct(1, "iPhone 9", "An apple mobile", decimal.NewFromInt(549), "smartphones"),
			types.NewProduct(2, "Galaxy S8", "Samsung flagship", decimal.NewFromInt(499), "smartphones"),
			types.NewProduct(3, "OPPO F19", "Oppo phone", decimal.NewFromInt(249), "smartphones"),
		},
		renamed: make(map[int]string),
	}
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]types.Category, error) {
	if f.failCategories {
		return nil, errors.New("upstream category error")
	}
	return f.categories, nil
}

func (f *fakeSource) GetCategoryProducts(ctx context.Context, category string) ([]types.Product, error) {
	f.mu.Lock()
	f.gotCategory = category
	f.mu.Unlock()
	if f.failProducts {
		return nil, errors.New("upstream products error")
	}
	return f.products, nil
}

func (f *fakeSource) AddProduct(ctx context.Context, draft types.ProductDraft) (types.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	if f.failMutations {
		return types.Product{}, errors.New("upstream add error")
	}
	price := decimal.Zero
	if draft.Price != nil {
		price = *draft.Price
	}
	return types.NewProduct(101, draft.Title, draft.Description, price, ""), nil
}

func (f *fakeSource) UpdateProductTitle(ctx context.Context, id int, title string) (types.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renamed[id] = title
	if f.failMutations {
		return types.Product{}, errors.New("upstream rename error")
	}
	return types.NewProduct(id, title, "", decimal.NewFromInt(549), "smartphones"), nil
}

func (f *fakeSource) DeleteProduct(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.failMutations {
		return errors.New("upstream delete error")
	}
	return nil
}

func (f *fakeSource) UpdateCategoryName(ctx context.Context, id, name string) (types.Category, error) {
	if f.failMutations {
		return types.Category{}, errors.New("upstream rename error")
	}
	return types.NewCategory(id, name), nil
}

func (f *fakeSource) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedCats = append(f.deletedCats, id)
	if f.failMutations {
		return errors.New("upstream delete error")
	}
	return nil
}

var _ types.CatalogSource = (*fakeSource)(nil)

func TestToolInvalidOrder(t *testing.T) {
	tools := newToolset(newFakeSource(), nil)

	result, _, err := tools.categoryList(context.Background(), nil, categoryListArgs{Order: "sideways"})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected IsError result for invalid order")
	}

	result, _, _ = tools.productList(context.Background(), nil, productListArgs{Order: "up"})
	if result == nil || !result.IsError {
		t.Fatalf("expected IsError result for invalid order")
	}
}

func TestToolCategoryListSortedAndPaged(t *testing.T) {
	tools := newToolset(newFakeSource(), nil)

	_, out, err := tools.categoryList(context.Background(), nil, categoryListArgs{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 3 {
		t.Fatalf("unexpected total: %d", out.Total)
	}
	if len(out.Items) != 2 || out.Items[0].ID != "beauty" || out.Items[1].ID != "laptops" {
		t.Fatalf("unexpected page: %+v", out.Items)
	}
	if !out.HasMore || out.NextOffset != 2 {
		t.Fatalf("unexpected paging: has_more=%v next=%d", out.HasMore, out.NextOffset)
	}

	_, out, _ = tools.categoryList(context.Background(), nil, categoryListArgs{Order: "desc", Query: "TOP"})
	if len(out.Items) != 1 || out.Items[0].ID != "laptops" {
		t.Fatalf("unexpected filtered items: %+v", out.Items)
	}
	if out.NextOffset != -1 {
		t.Fatalf("expected no next offset, got %d", out.NextOffset)
	}
}

func TestToolProductList(t *testing.T) {
	src := newFakeSource()
	tools := newToolset(src, &ServerOptions{Category: "laptops"})

	_, out, err := tools.productList(context.Background(), nil, productListArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.gotCategory != "laptops" {
		t.Fatalf("expected default category, got %q", src.gotCategory)
	}
	if out.Category != "laptops" || out.Order != "asc" {
		t.Fatalf("unexpected output header: %+v", out)
	}
	got := make([]string, len(out.Items))
	for i, item := range out.Items {
		got[i] = item.Title
	}
	if strings.Join(got, ",") != "Galaxy S8,iPhone 9,OPPO F19" {
		t.Fatalf("unexpected order %v", got)
	}

	_, out, _ = tools.productList(context.Background(), nil, productListArgs{Category: "smartphones", Query: "apple"})
	if out.Total != 0 {
		t.Fatalf("title filter must not match descriptions, got %+v", out.Items)
	}

	_, out, _ = tools.productList(context.Background(), nil, productListArgs{Order: "desc", Limit: 1})
	if len(out.Items) != 1 || out.Items[0].ID != 3 {
		t.Fatalf("unexpected limited desc items %+v", out.Items)
	}
}

func TestToolProductAddPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		wantNil bool
		want    string
	}{
		{name: "number", price: "12.50", want: "12.5"},
		{name: "blank", price: "", want: "0"},
		{name: "garbage", price: "cheap", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			tools := newToolset(src, nil)

			result, out, err := tools.productAdd(context.Background(), nil, productAddArgs{Title: "Widget", Price: tt.price})
			if err != nil || result != nil {
				t.Fatalf("unexpected failure: %v %+v", err, result)
			}
			if out.Item.ID != 101 || out.Item.Title != "Widget" {
				t.Fatalf("unexpected echoed item %+v", out.Item)
			}
			draft := src.drafts[0]
			if tt.wantNil {
				if draft.Price != nil {
					t.Fatalf("expected nil price, got %s", draft.Price)
				}
				return
			}
			if draft.Price == nil || draft.Price.String() != tt.want {
				t.Fatalf("expected price %s, got %v", tt.want, draft.Price)
			}
		})
	}
}

func TestToolMutationsRefusedWhileInFlight(t *testing.T) {
	pending := catalog.NewPending()
	tools := newToolset(newFakeSource(), &ServerOptions{Pending: pending})
	ctx := context.Background()

	pending.Begin(catalog.KindProduct, catalog.ProductKey(1))
	pending.Begin(catalog.KindCategory, "beauty")

	if r, _, _ := tools.productRename(ctx, nil, productRenameArgs{ID: 1, Title: "x"}); r == nil || !r.IsError {
		t.Fatal("rename of a busy product must fail")
	}
	if r, _, _ := tools.productDelete(ctx, nil, productDeleteArgs{ID: 1}); r == nil || !r.IsError {
		t.Fatal("delete of a busy product must fail")
	}
	if r, _, _ := tools.categoryRename(ctx, nil, categoryRenameArgs{ID: "beauty", Name: "x"}); r == nil || !r.IsError {
		t.Fatal("rename of a busy category must fail")
	}
	if r, _, _ := tools.categoryDelete(ctx, nil, categoryDeleteArgs{ID: "beauty"}); r == nil || !r.IsError {
		t.Fatal("delete of a busy category must fail")
	}

	if r, _, _ := tools.productDelete(ctx, nil, productDeleteArgs{ID: 2}); r != nil {
		t.Fatal("delete of an idle product should succeed")
	}
	if pending.Active(catalog.KindProduct, catalog.ProductKey(2)) {
		t.Fatal("pending entry should be released after the call")
	}
}

func TestToolRequiredIDs(t *testing.T) {
	tools := newToolset(newFakeSource(), nil)
	ctx := context.Background()

	if r, _, _ := tools.productRename(ctx, nil, productRenameArgs{Title: "x"}); r == nil || !r.IsError {
		t.Fatal("missing product id must fail")
	}
	if r, _, _ := tools.productDelete(ctx, nil, productDeleteArgs{}); r == nil || !r.IsError {
		t.Fatal("missing product id must fail")
	}
	if r, _, _ := tools.categoryRename(ctx, nil, categoryRenameArgs{ID: "  ", Name: "x"}); r == nil || !r.IsError {
		t.Fatal("missing category id must fail")
	}
	if r, _, _ := tools.categoryDelete(ctx, nil, categoryDeleteArgs{}); r == nil || !r.IsError {
		t.Fatal("missing category id must fail")
	}
}

func TestToolUpstreamFailuresIsError(t *testing.T) {
	ctx := context.Background()

	f1 := newFakeSource()
	f1.failCategories = true
	if r, _, _ := newToolset(f1, nil).categoryList(ctx, nil, categoryListArgs{}); r == nil || !r.IsError {
		t.Fatalf("category failure must return IsError")
	}

	f2 := newFakeSource()
	f2.failProducts = true
	if r, _, _ := newToolset(f2, nil).productList(ctx, nil, productListArgs{}); r == nil || !r.IsError {
		t.Fatalf("products failure must return IsError")
	}

	f3 := newFakeSource()
	f3.failMutations = true
	tools := newToolset(f3, nil)
	if r, _, _ := tools.productAdd(ctx, nil, productAddArgs{Title: "x"}); r == nil || !r.IsError {
		t.Fatalf("add failure must return IsError")
	}
	if r, _, _ := tools.productRename(ctx, nil, productRenameArgs{ID: 1, Title: "x"}); r == nil || !r.IsError {
		t.Fatalf("rename failure must return IsError")
	}
	if r, _, _ := tools.productDelete(ctx, nil, productDeleteArgs{ID: 1}); r == nil || !r.IsError {
		t.Fatalf("delete failure must return IsError")
	}
	if r, _, _ := tools.categoryRename(ctx, nil, categoryRenameArgs{ID: "beauty", Name: "x"}); r == nil || !r.IsError {
		t.Fatalf("category rename failure must return IsError")
	}
	if r, _, _ := tools.categoryDelete(ctx, nil, categoryDeleteArgs{ID: "beauty"}); r == nil || !r.IsError {
		t.Fatalf("category delete failure must return IsError")
	}
}

func TestAdminToolGating(t *testing.T) {
	ctx := context.Background()
	admin := []string{"product_add", "product_rename", "product_delete", "category_rename", "category_delete"}

	tests := []struct {
		name string
		opts *ServerOptions
		want bool
	}{
		{name: "disabled", opts: &ServerOptions{}, want: false},
		{name: "enabled without key", opts: &ServerOptions{EnableAdmin: true}, want: false},
		{name: "enabled with key", opts: &ServerOptions{EnableAdmin: true, APIKey: "secret"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startTestServer(newFakeSource(), Config{}, tt.opts)
			defer srv.Close()

			session := connectTestClient(t, ctx, srv.URL+"/mcp")
			defer session.Close()

			tools, err := session.ListTools(ctx, nil)
			if err != nil {
				t.Fatalf("list tools: %v", err)
			}
			for _, name := range admin {
				if containsTool(tools.Tools, name) != tt.want {
					t.Fatalf("tool %s present=%v, want %v", name, !tt.want, tt.want)
				}
			}
		})
	}
}

func TestMCPListTools(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), Config{}, &ServerOptions{})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	for _, name := range []string{"category_list", "product_list"} {
		if !containsTool(tools.Tools, name) {
			t.Fatalf("missing tool %q", name)
		}
	}
}

func TestMCPCoreTools(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), Config{}, &ServerOptions{EnableAdmin: true, APIKey: "secret"})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	cases := []mcp.CallToolParams{
		{Name: "category_list", Arguments: map[string]any{"offset": 0, "limit": 5}},
		{Name: "product_list", Arguments: map[string]any{"category": "smartphones", "order": "desc"}},
		{Name: "product_add", Arguments: map[string]any{"title": "Widget", "price": "9.99"}},
		{Name: "product_rename", Arguments: map[string]any{"id": 1, "title": "New Name"}},
		{Name: "product_delete", Arguments: map[string]any{"id": 2}},
		{Name: "category_rename", Arguments: map[string]any{"id": "beauty", "name": "Cosmetics"}},
		{Name: "category_delete", Arguments: map[string]any{"id": "laptops"}},
	}

	for _, tc := range cases {
		result, err := session.CallTool(ctx, &tc)
		if err != nil {
			t.Fatalf("call tool %s failed: %v", tc.Name, err)
		}
		if result.IsError {
			t.Fatalf("tool %s returned IsError=true", tc.Name)
		}
	}
}

func TestMCPProductRenameOutput(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), Config{}, &ServerOptions{EnableAdmin: true, APIKey: "secret"})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "product_rename",
		Arguments: map[string]any{"id": 1, "title": "New Name"},
	})
	if err != nil {
		t.Fatalf("call product_rename: %v", err)
	}

	b, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out productOutput
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	if out.Item.ID != 1 || out.Item.Title != "New Name" || out.Item.Price != "549" {
		t.Fatalf("unexpected item %+v", out.Item)
	}
}

func startTestServer(source types.CatalogSource, cfg Config, opts *ServerOptions) *httptest.Server {
	if cfg.RPS <= 0 {
		cfg.RPS = 100
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 100
	}
	server := NewServer(source, "test", opts)
	mux := http.NewServeMux()
	mux.Handle("/mcp", WrapMCPHandler(NewHandler(server, StreamableOptions(cfg)), cfg, nil))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return httptest.NewServer(mux)
}

func connectTestClient(t *testing.T, ctx context.Context, endpoint string) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	return session
}

func containsTool(tools []*mcp.Tool, name string) bool {
	for _, tool := range tools {
		if tool != nil && tool.Name == name {
			return true
		}
	}
	return false
}

func postInitialize(url string, headers map[string]string) (*http.Response, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": "2025-06-18",
			"capabilities":    map[string]any{},
			"clientInfo": map[string]any{
				"name":    "test",
				"version": "1",
			},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(string(b)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}
