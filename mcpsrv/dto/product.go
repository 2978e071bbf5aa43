package dto

type Product struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       string         `json:"price"`
	Category    string         `json:"category"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
