package export

import (
	"strings"
	"testing"
	"time"
)

func testRules(t *testing.T) *Rules {
	t.Helper()
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("load default rules: %v", err)
	}
	return rules
}

const listing = `[1] [unread] New feline diabetes clinic opens at teaching hospital
Blog: Cornell University
URL: https://vet.cornell.edu/news/feline-clinic
Published: 2026-08-19

[2] [read] Football team wins conference championship
Blog: Cornell University
URL: https://cornell.edu/sports/football

[3] [unread] Read more
Blog: Western University
URL: https://www.westernu.edu/news/

[4] [unread] Equine surgery residency program receives accreditation
Blog: Western University
URL: /veterinary/news/equine-residency
Published: 2026-08-18

[5] [unread] New feline diabetes clinic opens at teaching hospital
Blog: Cornell University
URL: https://vet.cornell.edu/news/feline-clinic-repost
`

func TestParseListing(t *testing.T) {
	articles, err := ParseListing(strings.NewReader(listing))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(articles) != 5 {
		t.Fatalf("parsed %d articles, want 5", len(articles))
	}

	first := articles[0]
	if first.Title != "New feline diabetes clinic opens at teaching hospital" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Source != "Cornell University" {
		t.Errorf("source = %q", first.Source)
	}
	if first.URL != "https://vet.cornell.edu/news/feline-clinic" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Date != "2026-08-19" {
		t.Errorf("date = %q", first.Date)
	}

	// The last entry has no trailing blank line and must still flush.
	if articles[4].URL != "https://vet.cornell.edu/news/feline-clinic-repost" {
		t.Errorf("last article lost: %+v", articles[4])
	}
}

func TestBuild_FiltersAndDedupes(t *testing.T) {
	articles, err := ParseListing(strings.NewReader(listing))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	doc, stats := NewExporter(testRules(t), 0).Build(articles, time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC))

	if stats.Exported != 2 {
		t.Fatalf("exported %d items, want 2 (stats: %+v)", stats.Exported, stats)
	}
	if stats.OffTopic != 1 {
		t.Errorf("off-topic skipped = %d, want 1 (football)", stats.OffTopic)
	}
	if stats.Junk != 1 {
		t.Errorf("junk skipped = %d, want 1 (Read more)", stats.Junk)
	}
	if stats.Duplicates != 1 {
		t.Errorf("duplicates skipped = %d, want 1", stats.Duplicates)
	}

	if doc.LastUpdated != "2026-08-20T08:00:00Z" {
		t.Errorf("lastUpdated = %q", doc.LastUpdated)
	}
}

func TestBuild_AssignsEmoji(t *testing.T) {
	articles := []Article{
		{Title: "Feline kitten wellness checkups now offered", Source: "A", URL: "https://a.edu/x"},
		{Title: "Equine therapy horse program expands", Source: "A", URL: "https://a.edu/y"},
		{Title: "Veterinary perspectives on interstellar travel", Source: "A", URL: "https://a.edu/z"},
	}

	doc, _ := NewExporter(testRules(t), 0).Build(articles, time.Now())
	if len(doc.Items) != 3 {
		t.Fatalf("exported %d items, want 3", len(doc.Items))
	}
	if doc.Items[0].Emoji != "🐱" {
		t.Errorf("feline emoji = %q", doc.Items[0].Emoji)
	}
	if doc.Items[1].Emoji != "🐴" {
		t.Errorf("equine emoji = %q", doc.Items[1].Emoji)
	}
	if doc.Items[2].Emoji != "📰" {
		t.Errorf("default emoji = %q", doc.Items[2].Emoji)
	}
}

func TestBuild_FixesRelativeURLs(t *testing.T) {
	articles := []Article{
		{Title: "Equine surgery residency program receives accreditation", Source: "Western University", URL: "/veterinary/news/x"},
	}

	doc, _ := NewExporter(testRules(t), 0).Build(articles, time.Now())
	if len(doc.Items) != 1 {
		t.Fatalf("exported %d items", len(doc.Items))
	}
	if got := doc.Items[0].URL; got != "https://www.westernu.edu/veterinary/news/x" {
		t.Errorf("url = %q", got)
	}
}

func TestBuild_TruncatesLongTitles(t *testing.T) {
	long := "Veterinary " + strings.Repeat("research ", 20)
	articles := []Article{{Title: long, Source: "A", URL: "https://a.edu/x"}}

	doc, _ := NewExporter(testRules(t), 0).Build(articles, time.Now())
	if len(doc.Items) != 1 {
		t.Fatalf("exported %d items", len(doc.Items))
	}
	if got := len([]rune(doc.Items[0].Title)); got > 100 {
		t.Errorf("title length = %d runes, cap is 100", got)
	}
}

func TestBuild_CapsItemCount(t *testing.T) {
	var articles []Article
	for i := 0; i < 10; i++ {
		articles = append(articles, Article{
			Title:  "Veterinary clinical update number " + string(rune('A'+i)),
			Source: "A",
			URL:    "https://a.edu/" + string(rune('a'+i)),
		})
	}

	doc, stats := NewExporter(testRules(t), 4).Build(articles, time.Now())
	if len(doc.Items) != 4 {
		t.Errorf("exported %d items, want the cap of 4", len(doc.Items))
	}
	if stats.Exported != 4 {
		t.Errorf("stats.Exported = %d", stats.Exported)
	}
}

func TestIsJunk_URLPatterns(t *testing.T) {
	e := NewExporter(testRules(t), 0)

	cases := []struct {
		title, url string
		junk       bool
	}{
		{"A veterinary story of reasonable length", "https://a.edu/story", false},
		{"short", "https://a.edu/story", true},
		{"A veterinary story of reasonable length", "mailto:dean@a.edu", true},
		{"A veterinary story of reasonable length", "https://a.edu/page/2/", true},
		{"A veterinary story of reasonable length", "https://a.edu/news#footer", true},
		{"Contact the school", "https://a.edu/contact", true},
	}
	for _, c := range cases {
		if got := e.isJunk(c.title, c.url); got != c.junk {
			t.Errorf("isJunk(%q, %q) = %v, want %v", c.title, c.url, got, c.junk)
		}
	}
}

func TestOffTopic_VetContextWins(t *testing.T) {
	e := NewExporter(testRules(t), 0)

	if !e.isOffTopic("Football team wins conference championship") {
		t.Errorf("plain sports story should be off-topic")
	}
	if e.isOffTopic("Football team mascot treated by veterinary cardiologists") {
		t.Errorf("sports story with vet context should stay")
	}
}

func TestLoadRules_BadPath(t *testing.T) {
	if _, err := LoadRules("/nonexistent/rules.yaml"); err == nil {
		t.Fatalf("expected error for missing rules file")
	}
}
