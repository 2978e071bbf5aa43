package dummyjson

import (
	"os"
	"testing"
)

func TestParseProductListFixture(t *testing.T) {
	data, err := os.ReadFile("../testdata/category_smartphones.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	products, err := ParseProductList(data)
	if err != nil {
		t.Fatalf("ParseProductList: %v", err)
	}
	if len(products) != 5 {
		t.Fatalf("products count = %d, want 5", len(products))
	}

	ids := make(map[int]bool)
	for i, p := range products {
		if p.Title() == "" {
			t.Errorf("product[%d] has empty title", i)
		}
		if p.Price().IsNegative() || p.Price().IsZero() {
			t.Errorf("product[%d] price = %s, want > 0", i, p.Price())
		}
		if ids[p.ID()] {
			t.Errorf("duplicate id %d", p.ID())
		}
		ids[p.ID()] = true
	}
}

func TestParseProductErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "<html>"},
		{name: "null", data: "null"},
		{name: "array", data: "[]"},
		{name: "string id", data: `{"id":"abc"}`},
		{name: "bad price", data: `{"id":1,"price":"cheap"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProduct([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %s", tt.data)
			}
		})
	}
}

func TestParseProductStringPrice(t *testing.T) {
	p, err := ParseProduct([]byte(`{"id":3,"title":"Case","price":"12.50"}`))
	if err != nil {
		t.Fatalf("ParseProduct: %v", err)
	}
	if p.Price().String() != "12.5" {
		t.Errorf("price = %s, want 12.5", p.Price())
	}
	if len(p.Attributes()) != 0 {
		t.Errorf("expected no attributes, got %v", p.Attributes())
	}
}
