package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/qyinm/catadmin/catalog"
	"github.com/qyinm/catadmin/types"
)

const (
	priceColumnWidth  = 12
	actionColumnWidth = 22
	markerWidth       = 2
)

// cell renders s on a single line padded or truncated to width.
func cell(style lipgloss.Style, s string, width int) string {
	if width < 1 {
		return ""
	}
	return style.Inline(true).Width(width).MaxWidth(width).Render(s)
}

func marker(selected bool) string {
	if selected {
		return SelectedRowStyle.Render("▸ ")
	}
	return "  "
}

// ProductDelegate renders one product table row. The row in edit mode shows
// the rename input in place of its title.
type ProductDelegate struct {
	focused   bool
	editingID int
	editing   bool
	editView  string
	pending   *catalog.Pending
}

func (d ProductDelegate) Height() int  { return 1 }
func (d ProductDelegate) Spacing() int { return 0 }

// Update handles updates for the delegate (no-op, the panel owns key handling)
func (d ProductDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single product row
func (d ProductDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	product, ok := item.(types.Product)
	if !ok {
		return
	}

	selected := d.focused && index == m.Index()
	editing := d.editing && product.ID() == d.editingID
	busy := d.pending != nil && d.pending.Active(catalog.KindProduct, catalog.ProductKey(product.ID()))

	titleWidth := m.Width() - markerWidth - priceColumnWidth - actionColumnWidth
	if titleWidth < 10 {
		titleWidth = 10
	}

	rowStyle := RowStyle
	if selected {
		rowStyle = SelectedRowStyle
	}

	title := cell(rowStyle, product.Title(), titleWidth)
	if editing {
		title = cell(lipgloss.NewStyle(), d.editView, titleWidth)
	}

	var actions string
	switch {
	case busy:
		actions = PendingStyle.Render("working…")
	case editing:
		actions = ActionStyle.Render("[enter] Save  [esc]")
	default:
		actions = ActionStyle.Render("[e] Edit  [d] Delete")
	}

	fmt.Fprint(w, marker(selected)+
		title+
		cell(PriceStyle, formatPrice(product), priceColumnWidth)+
		cell(lipgloss.NewStyle(), actions, actionColumnWidth))
}

// CategoryDelegate renders one category line with inline rename support.
type CategoryDelegate struct {
	focused   bool
	editingID string
	editing   bool
	editView  string
	pending   *catalog.Pending
}

func (d CategoryDelegate) Height() int  { return 1 }
func (d CategoryDelegate) Spacing() int { return 0 }

// Update handles updates for the delegate (no-op, the panel owns key handling)
func (d CategoryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single category line
func (d CategoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	category, ok := item.(types.Category)
	if !ok {
		return
	}

	selected := d.focused && index == m.Index()
	editing := d.editing && category.ID() == d.editingID
	busy := d.pending != nil && d.pending.Active(catalog.KindCategory, category.ID())

	nameWidth := m.Width() - markerWidth - actionColumnWidth
	if nameWidth < 10 {
		nameWidth = 10
	}

	rowStyle := RowStyle
	if selected {
		rowStyle = SelectedRowStyle
	}

	name := cell(rowStyle, category.Name(), nameWidth)
	if editing {
		name = cell(lipgloss.NewStyle(), d.editView, nameWidth)
	}

	var actions string
	switch {
	case busy:
		actions = PendingStyle.Render("working…")
	case editing:
		actions = ActionStyle.Render("[enter] Save  [esc]")
	case selected:
		actions = ActionStyle.Render("[e] Edit  [d] Delete")
	}

	fmt.Fprint(w, marker(selected)+name+cell(lipgloss.NewStyle(), actions, actionColumnWidth))
}

// formatPrice renders a price with two decimals, e.g. 549 -> "$549.00"
func formatPrice(p types.Product) string {
	return "$" + p.Price().StringFixed(2)
}
