package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/vetmedwire/newswidget/internal/feed"
)

func parseFragment(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("fragment does not parse: %v", err)
	}
	return doc
}

func sampleItems(n int) []feed.Item {
	items := make([]feed.Item, n)
	for i := range items {
		items[i] = feed.Item{
			Emoji:   "🐾",
			Title:   "Story number " + string(rune('A'+i)),
			Summary: "Summary text",
			URL:     "https://example.edu/story",
			Source:  "Example Vet School",
		}
	}
	return items
}

func TestFragment_ItemCountAndFooter(t *testing.T) {
	html, err := Fragment(sampleItems(3), "2026-08-20T08:00:00Z", Options{Height: 500})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc := parseFragment(t, html)

	if got := doc.Find(".vetnews-item").Length(); got != 3 {
		t.Errorf("rendered %d items, want 3", got)
	}
	if got := doc.Find(".vetnews-count").Text(); got != "3 articles" {
		t.Errorf("footer count = %q, want %q", got, "3 articles")
	}
	if got := doc.Find(".vetnews-updated").Text(); got != "Updated Aug 20, 2026" {
		t.Errorf("footer date = %q", got)
	}
}

func TestFragment_AbsentLastUpdated(t *testing.T) {
	html, err := Fragment(sampleItems(1), "", Options{Height: 500})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc := parseFragment(t, html)
	if got := doc.Find(".vetnews-updated").Text(); got != "" {
		t.Errorf("footer date should be empty, got %q", got)
	}
}

func TestFragment_EmptyFeedRendersEmptyList(t *testing.T) {
	html, err := Fragment(nil, "", Options{Height: 500})
	if err != nil {
		t.Fatalf("empty feed should render, got error: %v", err)
	}
	doc := parseFragment(t, html)
	if got := doc.Find(".vetnews-item").Length(); got != 0 {
		t.Errorf("expected empty list, got %d items", got)
	}
	if got := doc.Find(".vetnews-count").Text(); got != "0 articles" {
		t.Errorf("footer count = %q", got)
	}
}

func TestFragment_HeightCap(t *testing.T) {
	html, err := Fragment(sampleItems(1), "", Options{Height: 350})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc := parseFragment(t, html)
	style, _ := doc.Find(".vetnews-list").Attr("style")
	if !strings.Contains(style, "max-height: 350px") {
		t.Errorf("list style = %q, want max-height cap", style)
	}
}

func TestFragment_SearchInputFlag(t *testing.T) {
	withSearch, _ := Fragment(sampleItems(1), "", Options{Height: 500, ShowSearch: true})
	if parseFragment(t, withSearch).Find(".vetnews-search-input").Length() != 1 {
		t.Errorf("search input missing when ShowSearch is set")
	}

	without, _ := Fragment(sampleItems(1), "", Options{Height: 500})
	if parseFragment(t, without).Find(".vetnews-search-input").Length() != 0 {
		t.Errorf("search input rendered when ShowSearch is off")
	}
}

func TestFragment_HintHiddenAtOrUnderThreshold(t *testing.T) {
	small, _ := Fragment(sampleItems(3), "", Options{Height: 500})
	if !parseFragment(t, small).Find(".vetnews-hint").HasClass("vetnews-hidden") {
		t.Errorf("hint should be hidden for 3 items")
	}

	large, _ := Fragment(sampleItems(8), "", Options{Height: 500})
	if parseFragment(t, large).Find(".vetnews-hint").HasClass("vetnews-hidden") {
		t.Errorf("hint should be visible for 8 items")
	}
}

func TestItemHTML_LinkIsolationAndIndex(t *testing.T) {
	html, err := ItemHTML(feed.Item{Title: "Title", URL: "https://example.edu/x", Source: "Src"}, 4)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc := parseFragment(t, html)

	idx, _ := doc.Find(".vetnews-item").Attr("data-index")
	if idx != "4" {
		t.Errorf("data-index = %q, want 4", idx)
	}
	link := doc.Find(".vetnews-item-title")
	if tgt, _ := link.Attr("target"); tgt != "_blank" {
		t.Errorf("link target = %q", tgt)
	}
	if rel, _ := link.Attr("rel"); !strings.Contains(rel, "noopener") {
		t.Errorf("link rel = %q, want noopener", rel)
	}
}

func TestItemHTML_EscapesFeedText(t *testing.T) {
	html, err := ItemHTML(feed.Item{
		Title:   `<script>alert("pwn")</script>`,
		Summary: `<img src=x onerror=alert(1)>`,
		Source:  "Src",
		URL:     "https://example.edu/x",
	}, 0)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if strings.Contains(html, "<script>") || strings.Contains(html, "<img") {
		t.Fatalf("feed text was not escaped: %s", html)
	}

	// The text itself must survive escaping.
	doc := parseFragment(t, html)
	if got := doc.Find(".vetnews-item-title").Text(); !strings.Contains(got, `<script>alert("pwn")</script>`) {
		t.Errorf("escaped title text lost: %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://example.edu/a", "https://example.edu/a"},
		{"http://example.edu/a", "http://example.edu/a"},
		{"javascript:alert(1)", "#"},
		{"data:text/html,x", "#"},
		{"ftp://example.edu", "#"},
		{"/relative/path", "#"},
		{"", "#"},
		{"::broken::", "#"},
	}
	for _, c := range cases {
		if got := SafeURL(c.in); got != c.want {
			t.Errorf("SafeURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFallback_NeverEmpty(t *testing.T) {
	html := Fallback()
	if strings.TrimSpace(html) == "" {
		t.Fatalf("fallback must not be empty")
	}
	if parseFragment(t, html).Find(".vetnews-fallback").Length() != 1 {
		t.Errorf("fallback block missing")
	}
}

func TestNoResults_ShowsQueryEscaped(t *testing.T) {
	html, err := NoResults(`<b>query</b>`)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "<b>") {
		t.Errorf("query was not escaped: %s", html)
	}
	if got := parseFragment(t, html).Find(".vetnews-noresults").Text(); !strings.Contains(got, "<b>query</b>") {
		t.Errorf("no-results text = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-01-05T12:00:00Z"); got != "Jan 5, 2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(""); got != "" {
		t.Errorf("absent date should format to empty, got %q", got)
	}
	if got := FormatDate("yesterday"); got != "" {
		t.Errorf("unparseable date should format to empty, got %q", got)
	}
}
