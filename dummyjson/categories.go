package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/qyinm/catadmin/types"
)

// ListCategories fetches the category names and promotes each to a Category.
func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	data, err := c.do(ctx, http.MethodGet, "/products/category-list", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	categories, err := ParseCategoryList(data)
	if err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	return categories, nil
}

// UpdateCategoryName renames category id and returns the server's copy.
func (c *Client) UpdateCategoryName(ctx context.Context, id, name string) (types.Category, error) {
	payload := map[string]string{"name": name}
	data, err := c.do(ctx, http.MethodPut, "/products/category/"+url.PathEscape(id), payload)
	if err != nil {
		return types.Category{}, fmt.Errorf("update category %q: %w", id, err)
	}
	category, err := ParseCategory(data, id)
	if err != nil {
		return types.Category{}, fmt.Errorf("parse updated category: %w", err)
	}
	return category, nil
}

// DeleteCategory deletes category id. The response body is ignored.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/products/category/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete category %q: %w", id, err)
	}
	return nil
}

// ParseCategoryList decodes the category-list endpoint. Entries are bare
// names; objects with slug/name are accepted as well.
func ParseCategoryList(data []byte) ([]types.Category, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode category list: %w", err)
	}

	categories := make([]types.Category, 0, len(raws))
	for i, raw := range raws {
		c, err := ParseCategory(raw, "")
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// ParseCategory decodes one category representation. A bare string is the
// new name; an object may carry id, slug and name. fallbackID is used when
// the payload names no identifier.
func ParseCategory(data []byte, fallbackID string) (types.Category, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return types.Category{}, fmt.Errorf("decode category: empty body")
	}

	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return types.Category{}, fmt.Errorf("decode category: %w", err)
		}
		if fallbackID == "" {
			return types.NewCategoryFromName(name), nil
		}
		return types.NewCategory(fallbackID, name), nil
	}

	var obj struct {
		ID   json.RawMessage `json:"id"`
		Slug string          `json:"slug"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return types.Category{}, fmt.Errorf("decode category: %w", err)
	}

	id := rawID(obj.ID)
	if id == "" {
		id = strings.TrimSpace(obj.Slug)
	}
	if id == "" {
		id = fallbackID
	}
	name := obj.Name
	if name == "" {
		name = id
	}
	if id == "" && name == "" {
		return types.Category{}, fmt.Errorf("decode category: no id or name")
	}
	if id == "" {
		id = name
	}
	return types.NewCategory(id, name), nil
}

// rawID renders a JSON string or number id as a string.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
