// Package feed defines the news feed document and its JSON wire shape.
package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Item is one news entry as supplied by the feed. All fields are
// read-only to the widget.
type Item struct {
	Emoji   string `json:"emoji"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Date    string `json:"date,omitempty"`
}

// Document is the full feed payload. Items may be empty and
// LastUpdated may be absent; both are valid documents.
type Document struct {
	Items       []Item `json:"items"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// Decode parses a feed document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed document: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []Item{}
	}
	return &doc, nil
}

// SearchText returns the case-folded text the search filter matches
// against: title, summary and source joined together.
func (it Item) SearchText() string {
	return strings.ToLower(it.Title + " " + it.Summary + " " + it.Source)
}

// UpdatedTime parses LastUpdated as RFC 3339. The zero time and false
// are returned when the field is absent or unparseable.
func (d *Document) UpdatedTime() (time.Time, bool) {
	if d.LastUpdated == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, d.LastUpdated)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
