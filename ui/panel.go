package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/qyinm/catadmin/catalog"
	"github.com/qyinm/catadmin/types"
	"github.com/sirupsen/logrus"
)

// focusArea is the panel element receiving key presses
type focusArea int

const (
	focusSearch focusArea = iota
	focusNewTitle
	focusNewDescription
	focusNewPrice
	focusCategories
	focusProducts
	focusCount
)

const categoriesHeight = 6

// Panel is the product administration screen. All catalog state lives in
// the catalog.State view model; the widgets only mirror it.
type Panel struct {
	source   types.CatalogSource
	log      *logrus.Entry
	category string
	timeout  time.Duration

	state   catalog.State
	pending *catalog.Pending

	search       textinput.Model
	newTitle     textinput.Model
	newDesc      textinput.Model
	newPrice     textinput.Model
	productEdit  textinput.Model
	categoryEdit textinput.Model

	categories list.Model
	products   list.Model
	spinner    spinner.Model
	keys       keyMap

	focus     focusArea
	loading   int
	mountID   string
	requestID string
	width     int
	height    int
	statusMsg string
	err       error
}

// NewPanel creates a panel that loads from source when initialized.
func NewPanel(source types.CatalogSource, opts Options) Panel {
	opts = opts.withDefaults()

	search := newInput("Search categories and products...", 0)
	search.Focus()

	cats := newRowList("category", "categories")
	prods := newRowList("product", "products")

	s := spinner.New()
	s.Spinner = spinner.Dot

	p := Panel{
		source:       source,
		log:          opts.Logger.WithField("component", "panel"),
		category:     opts.Category,
		timeout:      opts.Timeout,
		state:        catalog.NewState(opts.Locale),
		pending:      catalog.NewPending(),
		search:       search,
		newTitle:     newInput("Product Title", 120),
		newDesc:      newInput("Product Description", 500),
		newPrice:     newInput("Product Price", 20),
		productEdit:  newInput("New title", 120),
		categoryEdit: newInput("New name", 120),
		categories:   cats,
		products:     prods,
		spinner:      s,
		keys:         keys,
		focus:        focusSearch,
		loading:      2,
		mountID:      uuid.NewString(),
		requestID:    uuid.NewString(),
		statusMsg:    "Loading…",
	}
	p.refresh()
	return p
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	return in
}

func newRowList(singular, plural string) list.Model {
	l := list.New([]list.Item{}, ProductDelegate{}, 0, 0)
	l.SetStatusBarItemName(singular, plural)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Init issues the two mount reads.
func (p Panel) Init() tea.Cmd {
	return tea.Batch(
		fetchCategories(p.source, p.timeout, p.requestID),
		fetchProducts(p.source, p.timeout, p.category, p.requestID),
		p.spinner.Tick,
	)
}

// State returns a copy of the view model.
func (p Panel) State() catalog.State { return p.state }

// Loading reports whether mount reads are outstanding.
func (p Panel) Loading() bool { return p.loading > 0 }

// Status returns the status line text.
func (p Panel) Status() string { return p.statusMsg }

// Err returns the last operation error, if any.
func (p Panel) Err() error { return p.err }

// Typing reports whether printable keys go to a text input.
func (p Panel) Typing() bool {
	switch p.focus {
	case focusSearch, focusNewTitle, focusNewDescription, focusNewPrice:
		return true
	case focusProducts:
		_, editing := p.state.EditingProduct()
		return editing
	case focusCategories:
		_, editing := p.state.EditingCategory()
		return editing
	}
	return false
}

// Update handles messages
func (p Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.resize()
		return p, nil

	case spinner.TickMsg:
		if p.loading == 0 {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case categoriesMsg:
		if msg.requestID != p.requestID {
			return p, nil
		}
		p.loading--
		if msg.err != nil {
			p.fail("Error fetching categories", msg.err)
			p.state.Categories = nil
		} else {
			p.state.Categories = msg.categories
			p.log.WithField("count", len(msg.categories)).Info("Fetched categories")
		}
		p.loadDone()
		p.refresh()
		return p, nil

	case productsMsg:
		if msg.requestID != p.requestID {
			return p, nil
		}
		p.loading--
		if msg.err != nil {
			p.fail("Error fetching products", msg.err)
			p.state.Products = nil
		} else {
			p.state.Products = msg.products
			p.log.WithFields(logrus.Fields{"count": len(msg.products), "category": p.category}).Info("Fetched products")
		}
		p.loadDone()
		p.refresh()
		return p, nil

	case productAddedMsg:
		if msg.panelID != p.mountID {
			return p, nil
		}
		if msg.err != nil {
			p.fail("Error adding product", msg.err)
			return p, nil
		}
		p.log.WithField("id", msg.product.ID()).Info("Added product")
		p.state.ApplyCreated(msg.product)
		p.newTitle.Reset()
		p.newDesc.Reset()
		p.newPrice.Reset()
		p.ok(fmt.Sprintf("Added %q", msg.product.Title()))
		p.refresh()
		return p, nil

	case productRenamedMsg:
		if msg.panelID != p.mountID {
			return p, nil
		}
		p.pending.Done(catalog.KindProduct, catalog.ProductKey(msg.id))
		if msg.err != nil {
			p.fail("Error updating product", msg.err)
			p.refresh()
			return p, nil
		}
		p.log.WithField("id", msg.id).Info("Updated product")
		p.state.ApplyProductRenamed(msg.id, msg.product)
		p.syncEditInputs()
		p.ok(fmt.Sprintf("Renamed product %d", msg.id))
		p.refresh()
		return p, nil

	case productDeletedMsg:
		if msg.panelID != p.mountID {
			return p, nil
		}
		p.pending.Done(catalog.KindProduct, catalog.ProductKey(msg.id))
		if msg.err != nil {
			p.fail("Error deleting product", msg.err)
		} else {
			p.log.WithField("id", msg.id).Info("Deleted product")
			p.ok(fmt.Sprintf("Deleted product %d", msg.id))
		}
		// removed locally whatever the outcome
		p.state.ApplyProductDeleted(msg.id)
		p.syncEditInputs()
		p.refresh()
		return p, nil

	case categoryRenamedMsg:
		if msg.panelID != p.mountID {
			return p, nil
		}
		p.pending.Done(catalog.KindCategory, msg.id)
		if msg.err != nil {
			p.fail("Error updating category", msg.err)
			p.refresh()
			return p, nil
		}
		p.log.WithField("id", msg.id).Info("Updated category")
		p.state.ApplyCategoryRenamed(msg.id, msg.category)
		p.syncEditInputs()
		p.ok(fmt.Sprintf("Renamed category %q", msg.id))
		p.refresh()
		return p, nil

	case categoryDeletedMsg:
		if msg.panelID != p.mountID {
			return p, nil
		}
		p.pending.Done(catalog.KindCategory, msg.id)
		if msg.err != nil {
			p.fail("Error deleting category", msg.err)
		} else {
			p.log.WithField("id", msg.id).Info("Deleted category")
			p.ok(fmt.Sprintf("Deleted category %q", msg.id))
		}
		p.state.ApplyCategoryDeleted(msg.id)
		p.syncEditInputs()
		p.refresh()
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

func (p Panel) handleKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.NextFocus):
		return p.setFocus((p.focus + 1) % focusCount)
	case key.Matches(msg, p.keys.PrevFocus):
		return p.setFocus((p.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, p.keys.SortToggle):
		p.state.ToggleSort()
		p.refresh()
		return p, nil
	}

	switch p.focus {
	case focusProducts:
		if _, editing := p.state.EditingProduct(); editing {
			return p.handleProductEditKey(msg)
		}
		return p.handleProductsKey(msg)
	case focusCategories:
		if _, editing := p.state.EditingCategory(); editing {
			return p.handleCategoryEditKey(msg)
		}
		return p.handleCategoriesKey(msg)
	default:
		return p.handleInputKey(msg)
	}
}

// handleInputKey routes keys to the search box or the creation form.
func (p Panel) handleInputKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	if key.Matches(msg, p.keys.Cancel) {
		return p, setAdding(false)
	}

	if key.Matches(msg, p.keys.Save) {
		if p.focus == focusSearch {
			return p.setFocus(focusProducts)
		}
		draft := p.state.Draft()
		p.statusMsg = "Adding product…"
		return p, addProduct(p.source, p.timeout, p.mountID, draft)
	}

	var cmd tea.Cmd
	switch p.focus {
	case focusSearch:
		p.search, cmd = p.search.Update(msg)
		if p.state.SearchTerm != p.search.Value() {
			p.state.SearchTerm = p.search.Value()
			p.refresh()
		}
	case focusNewTitle:
		p.newTitle, cmd = p.newTitle.Update(msg)
		p.state.NewProductTitle = p.newTitle.Value()
	case focusNewDescription:
		p.newDesc, cmd = p.newDesc.Update(msg)
		p.state.NewProductDescription = p.newDesc.Value()
	case focusNewPrice:
		p.newPrice, cmd = p.newPrice.Update(msg)
		p.state.NewProductPrice = p.newPrice.Value()
	}
	return p, cmd
}

func (p Panel) handleProductsKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Cancel):
		return p, setAdding(false)
	case key.Matches(msg, p.keys.Search):
		return p.setFocus(focusSearch)
	case key.Matches(msg, p.keys.Up):
		p.products.CursorUp()
	case key.Matches(msg, p.keys.Down):
		p.products.CursorDown()
	case key.Matches(msg, p.keys.Refresh):
		return p.reload()
	case key.Matches(msg, p.keys.Edit):
		product, ok := p.selectedProduct()
		if !ok {
			return p, nil
		}
		p.state.StartProductEdit(product.ID())
		p.productEdit.Reset()
		p.productEdit.Placeholder = product.Title()
		cmd := p.productEdit.Focus()
		p.refresh()
		return p, cmd
	case key.Matches(msg, p.keys.Delete):
		product, ok := p.selectedProduct()
		if !ok {
			return p, nil
		}
		id := product.ID()
		if !p.pending.Begin(catalog.KindProduct, catalog.ProductKey(id)) {
			p.statusMsg = fmt.Sprintf("Product %d is busy", id)
			return p, nil
		}
		p.statusMsg = fmt.Sprintf("Deleting product %d…", id)
		p.refresh()
		return p, deleteProduct(p.source, p.timeout, p.mountID, id)
	}
	return p, nil
}

func (p Panel) handleProductEditKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	id, _ := p.state.EditingProduct()
	switch {
	case key.Matches(msg, p.keys.Cancel):
		p.state.CancelProductEdit()
		p.productEdit.Reset()
		p.productEdit.Blur()
		p.refresh()
		return p, nil
	case key.Matches(msg, p.keys.Save):
		if !p.pending.Begin(catalog.KindProduct, catalog.ProductKey(id)) {
			p.statusMsg = fmt.Sprintf("Product %d is busy", id)
			return p, nil
		}
		p.statusMsg = fmt.Sprintf("Saving product %d…", id)
		p.refresh()
		return p, renameProduct(p.source, p.timeout, p.mountID, id, p.state.NewTitle)
	}

	var cmd tea.Cmd
	p.productEdit, cmd = p.productEdit.Update(msg)
	p.state.NewTitle = p.productEdit.Value()
	p.refresh()
	return p, cmd
}

func (p Panel) handleCategoriesKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Cancel):
		return p, setAdding(false)
	case key.Matches(msg, p.keys.Search):
		return p.setFocus(focusSearch)
	case key.Matches(msg, p.keys.Up):
		p.categories.CursorUp()
	case key.Matches(msg, p.keys.Down):
		p.categories.CursorDown()
	case key.Matches(msg, p.keys.Refresh):
		return p.reload()
	case key.Matches(msg, p.keys.Edit):
		category, ok := p.selectedCategory()
		if !ok {
			return p, nil
		}
		p.state.StartCategoryEdit(category.ID())
		p.categoryEdit.Reset()
		p.categoryEdit.Placeholder = category.Name()
		cmd := p.categoryEdit.Focus()
		p.refresh()
		return p, cmd
	case key.Matches(msg, p.keys.Delete):
		category, ok := p.selectedCategory()
		if !ok {
			return p, nil
		}
		id := category.ID()
		if !p.pending.Begin(catalog.KindCategory, id) {
			p.statusMsg = fmt.Sprintf("Category %q is busy", id)
			return p, nil
		}
		p.statusMsg = fmt.Sprintf("Deleting category %q…", id)
		p.refresh()
		return p, deleteCategory(p.source, p.timeout, p.mountID, id)
	}
	return p, nil
}

func (p Panel) handleCategoryEditKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	id, _ := p.state.EditingCategory()
	switch {
	case key.Matches(msg, p.keys.Cancel):
		p.state.CancelCategoryEdit()
		p.categoryEdit.Reset()
		p.categoryEdit.Blur()
		p.refresh()
		return p, nil
	case key.Matches(msg, p.keys.Save):
		if !p.pending.Begin(catalog.KindCategory, id) {
			p.statusMsg = fmt.Sprintf("Category %q is busy", id)
			return p, nil
		}
		p.statusMsg = fmt.Sprintf("Saving category %q…", id)
		p.refresh()
		return p, renameCategory(p.source, p.timeout, p.mountID, id, p.state.NewCategoryTitle)
	}

	var cmd tea.Cmd
	p.categoryEdit, cmd = p.categoryEdit.Update(msg)
	p.state.NewCategoryTitle = p.categoryEdit.Value()
	p.refresh()
	return p, cmd
}

// setFocus moves key focus and focuses or blurs the text inputs to match.
func (p Panel) setFocus(f focusArea) (Panel, tea.Cmd) {
	p.focus = f
	p.search.Blur()
	p.newTitle.Blur()
	p.newDesc.Blur()
	p.newPrice.Blur()

	var cmd tea.Cmd
	switch f {
	case focusSearch:
		cmd = p.search.Focus()
	case focusNewTitle:
		cmd = p.newTitle.Focus()
	case focusNewDescription:
		cmd = p.newDesc.Focus()
	case focusNewPrice:
		cmd = p.newPrice.Focus()
	}
	p.refresh()
	return p, cmd
}

// reload re-runs the mount reads. Each round gets a fresh request id so
// responses to earlier rounds are dropped. The mount id is kept, so
// mutations issued before the reload still land.
func (p Panel) reload() (Panel, tea.Cmd) {
	p.requestID = uuid.NewString()
	p.loading = 2
	p.err = nil
	p.statusMsg = "Loading…"
	return p, p.Init()
}

func (p *Panel) loadDone() {
	if p.loading > 0 || p.err != nil {
		return
	}
	p.statusMsg = fmt.Sprintf("%d categories, %d products", len(p.state.Categories), len(p.state.Products))
}

func (p *Panel) fail(action string, err error) {
	p.log.WithError(err).Error(action)
	p.err = err
	p.statusMsg = action + ": " + err.Error()
}

func (p *Panel) ok(status string) {
	p.err = nil
	p.statusMsg = status
}

// syncEditInputs clears the inline inputs whose edit slot was cleared.
func (p *Panel) syncEditInputs() {
	if _, ok := p.state.EditingProduct(); !ok {
		p.productEdit.Reset()
		p.productEdit.Blur()
	}
	if _, ok := p.state.EditingCategory(); !ok {
		p.categoryEdit.Reset()
		p.categoryEdit.Blur()
	}
}

func (p Panel) selectedProduct() (types.Product, bool) {
	product, ok := p.products.SelectedItem().(types.Product)
	return product, ok
}

func (p Panel) selectedCategory() (types.Category, bool) {
	category, ok := p.categories.SelectedItem().(types.Category)
	return category, ok
}

// refresh recomputes the visible rows from the view model.
func (p *Panel) refresh() {
	cats := p.state.VisibleCategories()
	catItems := make([]list.Item, len(cats))
	for i, c := range cats {
		catItems[i] = c
	}
	p.categories.SetItems(catItems)
	clampSelection(&p.categories)

	prods := p.state.VisibleProducts()
	prodItems := make([]list.Item, len(prods))
	for i, pr := range prods {
		prodItems[i] = pr
	}
	p.products.SetItems(prodItems)
	clampSelection(&p.products)

	productID, editingProduct := p.state.EditingProduct()
	p.products.SetDelegate(ProductDelegate{
		focused:   p.focus == focusProducts,
		editingID: productID,
		editing:   editingProduct,
		editView:  p.productEdit.View(),
		pending:   p.pending,
	})

	categoryID, editingCategory := p.state.EditingCategory()
	p.categories.SetDelegate(CategoryDelegate{
		focused:   p.focus == focusCategories,
		editingID: categoryID,
		editing:   editingCategory,
		editView:  p.categoryEdit.View(),
		pending:   p.pending,
	})
}

func clampSelection(l *list.Model) {
	n := len(l.Items())
	if n == 0 {
		l.ResetSelected()
		return
	}
	if l.Index() >= n {
		l.Select(n - 1)
	}
}

func (p *Panel) resize() {
	width := p.width
	if width < 40 {
		width = 40
	}
	// title, search, form heading + 3 inputs, two section headings,
	// table header, status and help
	chrome := 14
	productsHeight := p.height - chrome - categoriesHeight
	if productsHeight < 3 {
		productsHeight = 3
	}
	p.categories.SetSize(width, categoriesHeight)
	p.products.SetSize(width, productsHeight)
	p.refresh()
}

// SelectedProductID returns the id of the highlighted product row.
func (p Panel) SelectedProductID() (int, bool) {
	product, ok := p.selectedProduct()
	return product.ID(), ok
}

// SelectedCategoryID returns the id of the highlighted category row.
func (p Panel) SelectedCategoryID() (string, bool) {
	category, ok := p.selectedCategory()
	return category.ID(), ok
}

// View renders the panel
func (p Panel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Product Management"))
	b.WriteString("\n")

	order := "Ascending"
	next := "Descending"
	if !p.state.SortAsc {
		order, next = next, order
	}
	b.WriteString(p.search.View())
	b.WriteString("  ")
	b.WriteString(ActionStyle.Render(fmt.Sprintf("[%s] Sort %s (now %s)", p.keys.SortToggle.Help().Key, next, order)))
	b.WriteString("\n")

	b.WriteString(p.section("Add New Product", p.focus >= focusNewTitle && p.focus <= focusNewPrice))
	b.WriteString("\n")
	b.WriteString(p.newTitle.View() + "\n")
	b.WriteString(p.newDesc.View() + "\n")
	b.WriteString(p.newPrice.View() + "  " + ActionStyle.Render("[enter] Add Product") + "\n")

	b.WriteString(p.section("Categories", p.focus == focusCategories))
	b.WriteString("\n")
	b.WriteString(p.categories.View())
	b.WriteString("\n")

	b.WriteString(p.section("Products", p.focus == focusProducts))
	b.WriteString("\n")
	b.WriteString(p.tableHeader())
	b.WriteString("\n")
	b.WriteString(p.products.View())
	b.WriteString("\n")

	b.WriteString(p.statusView())
	return b.String()
}

func (p Panel) section(title string, focused bool) string {
	if focused {
		return FocusedSectionStyle.Render(title)
	}
	return SectionStyle.Render(title)
}

func (p Panel) tableHeader() string {
	titleWidth := p.products.Width() - markerWidth - priceColumnWidth - actionColumnWidth
	if titleWidth < 10 {
		titleWidth = 10
	}
	return strings.Repeat(" ", markerWidth) +
		cell(TableHeaderStyle, "Title", titleWidth) +
		cell(TableHeaderStyle, "Price", priceColumnWidth) +
		cell(TableHeaderStyle, "Actions", actionColumnWidth)
}

func (p Panel) statusView() string {
	var line string
	switch {
	case p.loading > 0:
		line = p.spinner.View() + " " + p.statusMsg
	case p.err != nil:
		line = ErrorStyle.Render(p.statusMsg)
	default:
		line = StatusBarStyle.Render(p.statusMsg)
	}
	if n := p.pending.Len(); n > 0 {
		line += PendingStyle.Render(fmt.Sprintf("  (%d in flight)", n))
	}
	return line
}
