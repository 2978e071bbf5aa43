package dto

import (
	"encoding/json"

	"github.com/qyinm/catadmin/types"
)

func FromProduct(p types.Product) Product {
	return Product{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Price:       p.Price().String(),
		Category:    p.Category(),
		Attributes:  decodeAttributes(p.Attributes()),
	}
}

func FromProducts(products []types.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}

func FromCategory(c types.Category) Category {
	return Category{ID: c.ID(), Name: c.Name()}
}

func FromCategories(categories []types.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, FromCategory(c))
	}
	return out
}

// decodeAttributes turns the raw extra fields into plain JSON values.
// Fields that fail to decode are dropped.
func decodeAttributes(raw map[string]json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			continue
		}
		out[k] = decoded
	}
	return out
}
