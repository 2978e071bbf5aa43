package catalog

import (
	"strings"

	"github.com/qyinm/catadmin/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// State is the admin panel's view model: the fetched lists, the search and
// sort controls, the two independent edit slots and the input buffers.
type State struct {
	Categories []types.Category
	Products   []types.Product

	SearchTerm string
	SortAsc    bool
	Locale     language.Tag

	NewTitle              string
	NewCategoryTitle      string
	NewProductTitle       string
	NewProductDescription string
	NewProductPrice       string

	editingProduct    int
	editingProductOK  bool
	editingCategory   string
	editingCategoryOK bool
}

// NewState returns an empty view model sorted ascending.
func NewState(locale language.Tag) State {
	return State{SortAsc: true, Locale: locale}
}

// EditingProduct returns the product id in inline-edit mode, if any.
func (s State) EditingProduct() (int, bool) {
	return s.editingProduct, s.editingProductOK
}

// EditingCategory returns the category id in inline-edit mode, if any.
func (s State) EditingCategory() (string, bool) {
	return s.editingCategory, s.editingCategoryOK
}

// StartProductEdit puts product id in edit mode, replacing any previous one.
func (s *State) StartProductEdit(id int) {
	s.editingProduct, s.editingProductOK = id, true
}

// CancelProductEdit clears the product edit slot and its buffer.
func (s *State) CancelProductEdit() {
	s.editingProduct, s.editingProductOK = 0, false
	s.NewTitle = ""
}

// StartCategoryEdit puts category id in edit mode, replacing any previous one.
func (s *State) StartCategoryEdit(id string) {
	s.editingCategory, s.editingCategoryOK = id, true
}

// CancelCategoryEdit clears the category edit slot and its buffer.
func (s *State) CancelCategoryEdit() {
	s.editingCategory, s.editingCategoryOK = "", false
	s.NewCategoryTitle = ""
}

// ToggleSort flips between ascending and descending order.
func (s *State) ToggleSort() {
	s.SortAsc = !s.SortAsc
}

// VisibleCategories sorts then filters the category list.
func (s State) VisibleCategories() []types.Category {
	return FilterCategories(SortCategories(s.Categories, s.SortAsc, s.Locale), s.SearchTerm)
}

// VisibleProducts sorts then filters the product list.
func (s State) VisibleProducts() []types.Product {
	return FilterProducts(SortProducts(s.Products, s.SortAsc, s.Locale), s.SearchTerm)
}

// Draft builds the create payload from the creation buffers.
func (s State) Draft() types.ProductDraft {
	return types.ProductDraft{
		Title:       s.NewProductTitle,
		Description: s.NewProductDescription,
		Price:       ParsePrice(s.NewProductPrice),
	}
}

// ApplyCreated appends the server's copy of a new product and clears the
// creation buffers.
func (s *State) ApplyCreated(p types.Product) {
	s.Products = append(s.Products, p)
	s.NewProductTitle = ""
	s.NewProductDescription = ""
	s.NewProductPrice = ""
}

// ApplyProductRenamed replaces the product with id by the server's copy.
// The edit slot is cleared only if it holds id.
func (s *State) ApplyProductRenamed(id int, p types.Product) {
	out := make([]types.Product, len(s.Products))
	for i, existing := range s.Products {
		if existing.ID() == id {
			out[i] = p
			continue
		}
		out[i] = existing
	}
	s.Products = out
	if editing, ok := s.EditingProduct(); ok && editing == id {
		s.CancelProductEdit()
	}
}

// ApplyProductDeleted drops the product with id. A product being edited is
// taken out of edit mode too.
func (s *State) ApplyProductDeleted(id int) {
	out := make([]types.Product, 0, len(s.Products))
	for _, existing := range s.Products {
		if existing.ID() != id {
			out = append(out, existing)
		}
	}
	s.Products = out
	if editing, ok := s.EditingProduct(); ok && editing == id {
		s.CancelProductEdit()
	}
}

// ApplyCategoryRenamed replaces the category with id by the server's copy
// and clears the category edit slot if it holds id.
func (s *State) ApplyCategoryRenamed(id string, c types.Category) {
	out := make([]types.Category, len(s.Categories))
	for i, existing := range s.Categories {
		if existing.ID() == id {
			out[i] = c
			continue
		}
		out[i] = existing
	}
	s.Categories = out
	if editing, ok := s.EditingCategory(); ok && editing == id {
		s.CancelCategoryEdit()
	}
}

// ApplyCategoryDeleted drops the category with id.
func (s *State) ApplyCategoryDeleted(id string) {
	out := make([]types.Category, 0, len(s.Categories))
	for _, existing := range s.Categories {
		if existing.ID() != id {
			out = append(out, existing)
		}
	}
	s.Categories = out
	if editing, ok := s.EditingCategory(); ok && editing == id {
		s.CancelCategoryEdit()
	}
}

// ParsePrice converts a price buffer to a number the way a form field would:
// blank is zero and anything unparsable is nil (sent as null).
func ParsePrice(raw string) *decimal.Decimal {
	v := strings.TrimSpace(raw)
	if v == "" {
		zero := decimal.Zero
		return &zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}
