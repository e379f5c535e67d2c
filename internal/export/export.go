// Package export turns the external feed aggregator's article listing
// into the widget's feed document. It only curates and formats what
// the aggregator already collected; fetching and scraping upstream
// sources stays in the aggregator.
package export

import (
	"strings"
	"time"

	"github.com/vetmedwire/newswidget/internal/feed"
	"github.com/vetmedwire/newswidget/internal/logger"
	"github.com/vetmedwire/newswidget/internal/metrics"
)

const (
	// DefaultMaxItems caps the exported feed.
	DefaultMaxItems = 100

	// titleMaxRunes truncates overly long headlines.
	titleMaxRunes = 100

	// dedupePrefixRunes is how much of the normalized title is used as
	// the duplicate key.
	dedupePrefixRunes = 50

	defaultEmoji = "📰"
)

// Stats summarizes one export run.
type Stats struct {
	Total       int
	Junk        int
	OffTopic    int
	NotRelevant int
	Duplicates  int
	Exported    int
}

// Exporter filters, decorates and caps articles into a feed document.
type Exporter struct {
	rules    *Rules
	maxItems int
}

func NewExporter(rules *Rules, maxItems int) *Exporter {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Exporter{rules: rules, maxItems: maxItems}
}

// Build produces the feed document for the given articles. Ordering is
// preserved; the aggregator lists newest first.
func (e *Exporter) Build(articles []Article, now time.Time) (*feed.Document, Stats) {
	stats := Stats{Total: len(articles)}
	seenTitles := make(map[string]bool)
	items := make([]feed.Item, 0, len(articles))

	for _, a := range articles {
		source := a.Source
		if source == "" {
			source = "Unknown"
		}

		if e.isJunk(a.Title, a.URL) {
			stats.Junk++
			continue
		}
		if e.isOffTopic(a.Title) {
			stats.OffTopic++
			continue
		}
		if !e.isRelevant(a.Title) {
			stats.NotRelevant++
			continue
		}

		key := dedupeKey(a.Title)
		if seenTitles[key] {
			stats.Duplicates++
			continue
		}
		seenTitles[key] = true

		items = append(items, feed.Item{
			Emoji:   e.emojiFor(a.Title, ""),
			Title:   truncateRunes(a.Title, titleMaxRunes),
			Summary: "",
			URL:     e.fixURL(a.URL, source),
			Source:  source,
			Date:    a.Date,
		})
		if len(items) >= e.maxItems {
			break
		}
	}

	stats.Exported = len(items)
	metrics.Global.AddItemsExported(len(items))
	logger.Info("export built",
		"total", stats.Total,
		"junk", stats.Junk,
		"off_topic", stats.OffTopic,
		"not_relevant", stats.NotRelevant,
		"duplicates", stats.Duplicates,
		"exported", stats.Exported)

	return &feed.Document{
		Items:       items,
		LastUpdated: now.Format(time.RFC3339),
	}, stats
}

// isJunk filters navigation chrome and broken links.
func (e *Exporter) isJunk(title, url string) bool {
	if len([]rune(title)) < 10 {
		return true
	}
	for _, re := range e.rules.junkTitles {
		if re.MatchString(title) {
			return true
		}
	}
	if strings.HasPrefix(url, "mailto:") {
		return true
	}
	if strings.Contains(url, "/page/") && strings.HasSuffix(url, "/") {
		return true
	}
	if strings.Contains(url, "#footer") || strings.Contains(url, "#header") || strings.Contains(url, "#nav") {
		return true
	}
	if strings.HasSuffix(url, "/index.html") && len([]rune(title)) < 20 {
		return true
	}
	return false
}

// isRelevant requires a vet/health keyword in the title itself. The
// source name alone is not enough.
func (e *Exporter) isRelevant(title string) bool {
	for _, re := range e.rules.relevant {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

func (e *Exporter) isOffTopic(title string) bool {
	for _, re := range e.rules.exclude {
		if re.MatchString(title) {
			return !e.isRelevant(title)
		}
	}
	return false
}

func (e *Exporter) emojiFor(title, summary string) string {
	text := title + " " + summary
	for _, rule := range e.rules.emoji {
		if rule.re.MatchString(text) {
			return rule.emoji
		}
	}
	return defaultEmoji
}

// fixURL resolves the relative links some source listings carry.
func (e *Exporter) fixURL(url, source string) string {
	if strings.HasPrefix(url, "http") {
		return url
	}
	if strings.HasPrefix(url, "/") {
		if base := e.rules.sourceBaseURLs[source]; base != "" {
			return base + url
		}
	}
	return url
}

func dedupeKey(title string) string {
	return truncateRunes(strings.ToLower(strings.TrimSpace(title)), dedupePrefixRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
