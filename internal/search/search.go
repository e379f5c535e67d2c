// Package search implements the widget's substring filter over feed items.
package search

import (
	"strings"

	"github.com/vetmedwire/newswidget/internal/feed"
)

// Normalize trims and case-folds a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter returns the items whose searchable text contains the
// normalized query as a substring, preserving the original order.
// An empty query returns the full input slice unchanged.
func Filter(items []feed.Item, query string) []feed.Item {
	q := Normalize(query)
	if q == "" {
		return items
	}

	var matched []feed.Item
	for _, it := range items {
		if strings.Contains(it.SearchText(), q) {
			matched = append(matched, it)
		}
	}
	return matched
}
