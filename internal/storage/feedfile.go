// Package storage persists the last good feed document to disk so the
// embedding server can keep serving news while the upstream is down.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vetmedwire/newswidget/internal/feed"
)

// savedFeed is the on-disk envelope around a feed document.
type savedFeed struct {
	SavedAt  time.Time      `json:"saved_at"`
	Document *feed.Document `json:"document"`
}

// FeedFile manages a single feed document in a JSON file.
type FeedFile struct {
	filePath string
	maxAge   time.Duration
	mu       sync.Mutex
}

// NewFeedFile creates a feed file store. maxAge <= 0 means saved
// documents never go stale.
func NewFeedFile(filePath string, maxAge time.Duration) *FeedFile {
	return &FeedFile{filePath: filePath, maxAge: maxAge}
}

// Save writes doc as the new last-known-good document.
func (ff *FeedFile) Save(doc *feed.Document) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	data, err := json.MarshalIndent(savedFeed{SavedAt: time.Now(), Document: doc}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %v", err)
	}

	if err := os.WriteFile(ff.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write feed file: %v", err)
	}

	return nil
}

// Load returns the saved document, or an error when there is none or
// it is older than maxAge.
func (ff *FeedFile) Load() (*feed.Document, error) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	data, err := os.ReadFile(ff.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %v", err)
	}

	var saved savedFeed
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed file: %v", err)
	}
	if saved.Document == nil {
		return nil, fmt.Errorf("feed file has no document")
	}

	if ff.maxAge > 0 && time.Since(saved.SavedAt) > ff.maxAge {
		return nil, fmt.Errorf("saved feed is stale (saved %s)", saved.SavedAt.Format(time.RFC3339))
	}

	return saved.Document, nil
}
