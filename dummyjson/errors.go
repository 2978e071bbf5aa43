package dummyjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Message)
}

const maxMessageLen = 200

// describeBody extracts a short human readable message from an error body.
// DummyJSON answers with {"message": "..."}; proxies and CDNs in front of it
// answer with HTML pages.
func describeBody(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return truncate(strings.TrimSpace(payload.Message), maxMessageLen)
	}

	if strings.Contains(strings.ToLower(contentType), "html") || trimmed[0] == '<' {
		if summary := htmlSummary(trimmed); summary != "" {
			return truncate(summary, maxMessageLen)
		}
	}

	return truncate(string(trimmed), maxMessageLen)
}

// htmlSummary returns the page title and first heading of an HTML document.
func htmlSummary(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	title := collapseSpace(doc.Find("title").First().Text())
	heading := collapseSpace(doc.Find("h1").First().Text())

	switch {
	case title == "" && heading == "":
		return collapseSpace(doc.Find("body").Text())
	case title == "":
		return heading
	case heading == "" || strings.EqualFold(title, heading):
		return title
	default:
		return title + ": " + heading
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
