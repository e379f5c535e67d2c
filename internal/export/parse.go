package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Article is one entry from the aggregator's article listing.
type Article struct {
	Title  string
	Source string
	URL    string
	Date   string
}

// articleStart matches the first line of an entry:
//
//	[42] [unread] New feline cardiology residency announced
var articleStart = regexp.MustCompile(`^\[\d+\]\s+\[(?:read|unread)\]\s+(.+)$`)

// ParseListing parses the plain-text article listing produced by the
// feed aggregator (`blogwatcher articles --all`). Entries start with a
// bracketed id line followed by Blog:/URL:/Published: fields.
func ParseListing(r io.Reader) ([]Article, error) {
	var articles []Article
	var current Article
	open := false

	flush := func() {
		if open && current.Title != "" {
			articles = append(articles, current)
		}
		current = Article{}
		open = false
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := articleStart.FindStringSubmatch(line); m != nil {
			flush()
			current.Title = strings.TrimSpace(m[1])
			open = true
			continue
		}

		switch {
		case strings.HasPrefix(line, "Blog:"):
			current.Source = strings.TrimSpace(strings.TrimPrefix(line, "Blog:"))
		case strings.HasPrefix(line, "URL:"):
			current.URL = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
		case strings.HasPrefix(line, "Published:"):
			current.Date = strings.TrimSpace(strings.TrimPrefix(line, "Published:"))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	flush()

	return articles, nil
}
