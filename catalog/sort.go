package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/qyinm/catadmin/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ParseLocale resolves a BCP 47 tag, falling back to English.
func ParseLocale(raw string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil || tag == language.Und {
		return language.English
	}
	return tag
}

// SortCategories returns a sorted copy of categories. Names are compared
// with the collation rules of locale and ties are broken by id, so the order
// is total. Descending is the exact reverse of ascending.
func SortCategories(categories []types.Category, asc bool, locale language.Tag) []types.Category {
	out := slices.Clone(categories)
	coll := collate.New(locale)
	slices.SortStableFunc(out, func(a, b types.Category) int {
		if c := coll.CompareString(a.Name(), b.Name()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
	if !asc {
		slices.Reverse(out)
	}
	return out
}

// SortProducts returns a sorted copy of products ordered by title, then id.
func SortProducts(products []types.Product, asc bool, locale language.Tag) []types.Product {
	out := slices.Clone(products)
	coll := collate.New(locale)
	slices.SortStableFunc(out, func(a, b types.Product) int {
		if c := coll.CompareString(a.Title(), b.Title()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	if !asc {
		slices.Reverse(out)
	}
	return out
}

// FilterCategories keeps categories whose name contains term, ignoring case.
// An empty term keeps everything. Order is preserved.
func FilterCategories(categories []types.Category, term string) []types.Category {
	match := matcher(term)
	out := make([]types.Category, 0, len(categories))
	for _, c := range categories {
		if match(c.Name()) {
			out = append(out, c)
		}
	}
	return out
}

// FilterProducts keeps products whose title contains term, ignoring case.
func FilterProducts(products []types.Product, term string) []types.Product {
	match := matcher(term)
	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if match(p.Title()) {
			out = append(out, p)
		}
	}
	return out
}

// matcher returns a case-folded substring predicate for term.
func matcher(term string) func(string) bool {
	if term == "" {
		return func(string) bool { return true }
	}
	fold := cases.Fold()
	needle := fold.String(term)
	return func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}
}
