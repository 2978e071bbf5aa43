package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/catadmin/types"
)

// Message types for async operations. Load replies carry the id of the
// load round; mutation replies carry the id of the panel that issued them.

type categoriesMsg struct {
	requestID  string
	categories []types.Category
	err        error
}

type productsMsg struct {
	requestID string
	products  []types.Product
	err       error
}

type productAddedMsg struct {
	panelID string
	product types.Product
	err     error
}

type productRenamedMsg struct {
	panelID string
	id      int
	product types.Product
	err     error
}

type productDeletedMsg struct {
	panelID string
	id      int
	err     error
}

type categoryRenamedMsg struct {
	panelID  string
	id       string
	category types.Category
	err      error
}

type categoryDeletedMsg struct {
	panelID string
	id      string
	err     error
}

// SetAddingMsg asks the parent to open or close the admin panel.
type SetAddingMsg struct {
	Adding bool
}

// SetAuthenticatedMsg asks the parent to change the signed-in flag.
type SetAuthenticatedMsg struct {
	Authenticated bool
}

func setAdding(v bool) tea.Cmd {
	return func() tea.Msg { return SetAddingMsg{Adding: v} }
}

func setAuthenticated(v bool) tea.Cmd {
	return func() tea.Msg { return SetAuthenticatedMsg{Authenticated: v} }
}

// fetchCategories returns a tea.Cmd that loads the category list asynchronously
func fetchCategories(source types.CatalogSource, timeout time.Duration, requestID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		categories, err := source.ListCategories(ctx)
		return categoriesMsg{requestID: requestID, categories: categories, err: err}
	}
}

// fetchProducts returns a tea.Cmd that loads one category's products asynchronously
func fetchProducts(source types.CatalogSource, timeout time.Duration, category string, requestID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		products, err := source.GetCategoryProducts(ctx, category)
		return productsMsg{requestID: requestID, products: products, err: err}
	}
}

func addProduct(source types.CatalogSource, timeout time.Duration, panelID string, draft types.ProductDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		product, err := source.AddProduct(ctx, draft)
		return productAddedMsg{panelID: panelID, product: product, err: err}
	}
}

func renameProduct(source types.CatalogSource, timeout time.Duration, panelID string, id int, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		product, err := source.UpdateProductTitle(ctx, id, title)
		return productRenamedMsg{panelID: panelID, id: id, product: product, err: err}
	}
}

func deleteProduct(source types.CatalogSource, timeout time.Duration, panelID string, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return productDeletedMsg{panelID: panelID, id: id, err: source.DeleteProduct(ctx, id)}
	}
}

func renameCategory(source types.CatalogSource, timeout time.Duration, panelID, id, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		category, err := source.UpdateCategoryName(ctx, id, name)
		return categoryRenamedMsg{panelID: panelID, id: id, category: category, err: err}
	}
}

func deleteCategory(source types.CatalogSource, timeout time.Duration, panelID, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return categoryDeletedMsg{panelID: panelID, id: id, err: source.DeleteCategory(ctx, id)}
	}
}
