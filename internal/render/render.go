// Package render produces the widget's HTML fragments. Templates are
// html/template, so feed-sourced text is escaped by default; the url
// field is let through only after scheme validation.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/vetmedwire/newswidget/internal/feed"
	"github.com/vetmedwire/newswidget/internal/scroll"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Options controls the shape of the rendered fragment.
type Options struct {
	Height     int
	ShowSearch bool
}

// ItemView is one item prepared for templating.
type ItemView struct {
	Index   int
	Emoji   string
	Title   string
	Summary string
	Source  string
	URL     string
}

type fragmentData struct {
	Items      []ItemView
	Count      int
	Updated    string
	Height     int
	ShowSearch bool
	HintHidden bool
	Hint       string
}

// Fragment renders the complete widget: header, optional search input,
// the scrollable item list capped at opts.Height pixels, the scroll
// hint, and a footer with the article count and last-updated date.
func Fragment(items []feed.Item, lastUpdated string, opts Options) (string, error) {
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = itemView(it, i)
	}

	data := fragmentData{
		Items:      views,
		Count:      len(items),
		Updated:    FormatDate(lastUpdated),
		Height:     opts.Height,
		ShowSearch: opts.ShowSearch,
		HintHidden: len(items) <= scroll.HintThreshold,
		Hint:       scroll.Hint(true, false, false),
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "widget.tmpl", data); err != nil {
		return "", fmt.Errorf("render widget: %w", err)
	}
	return b.String(), nil
}

// ItemHTML renders a single item carrying index as its position
// attribute.
func ItemHTML(it feed.Item, index int) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "item.tmpl", itemView(it, index)); err != nil {
		return "", fmt.Errorf("render item: %w", err)
	}
	return b.String(), nil
}

// ItemsHTML renders a run of items with consecutive indexes starting
// at first.
func ItemsHTML(items []feed.Item, first int) (string, error) {
	var b strings.Builder
	for i, it := range items {
		frag, err := ItemHTML(it, first+i)
		if err != nil {
			return "", err
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}

// Fallback renders the fixed-text block shown when the feed cannot be
// loaded. The mount is never left blank.
func Fallback() string {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "fallback.tmpl", nil); err != nil {
		// Static template with no data; execution cannot fail at runtime.
		return "<div class=\"vetnews-fallback\">News is unavailable right now.</div>"
	}
	return b.String()
}

// NoResults renders the empty-search message with the query shown back
// to the user.
func NoResults(query string) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "noresults.tmpl", struct{ Query string }{query}); err != nil {
		return "", fmt.Errorf("render no-results: %w", err)
	}
	return b.String(), nil
}

// FormatDate renders an RFC 3339 timestamp as "Jan 2, 2006". Absent or
// unparseable input renders as the empty string, never an error.
func FormatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func itemView(it feed.Item, index int) ItemView {
	return ItemView{
		Index:   index,
		Emoji:   it.Emoji,
		Title:   it.Title,
		Summary: it.Summary,
		Source:  it.Source,
		URL:     SafeURL(it.URL),
	}
}

// SafeURL passes http and https URLs through unchanged; everything
// else, including javascript: and data: schemes, renders as "#".
func SafeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "#"
	}
	return u.String()
}
