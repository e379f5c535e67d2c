// Package page models the host document the widget mounts into. The
// document is parsed HTML held in memory; the widget mutates it and
// the embedding server serializes the result.
package page

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page wraps a parsed host document.
type Page struct {
	doc *goquery.Document
}

// Parse reads host HTML from r.
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing host document: %w", err)
	}
	return &Page{doc: doc}, nil
}

// ParseString parses host HTML held in a string.
func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// Find resolves a CSS selector against the document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// EnsureStylesheet injects a stylesheet link into head unless a link
// with the same href is already present. Returns true when a link was
// added.
func (p *Page) EnsureStylesheet(href string) bool {
	if href == "" {
		return false
	}
	if p.doc.Find(fmt.Sprintf("link[href=%q]", href)).Length() > 0 {
		return false
	}

	head := p.doc.Find("head")
	if head.Length() == 0 {
		return false
	}
	head.AppendHtml(fmt.Sprintf(`<link rel="stylesheet" href="%s">`, html.EscapeString(href)))
	return true
}

// SetFragment replaces the inner HTML of the first element matching
// selector.
func (p *Page) SetFragment(selector, fragment string) error {
	sel := p.doc.Find(selector)
	if sel.Length() == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	sel.First().SetHtml(fragment)
	return nil
}

// Serialize renders the whole document back to HTML.
func (p *Page) Serialize() (string, error) {
	return p.doc.Html()
}
