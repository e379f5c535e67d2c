// Package cache is a small in-memory TTL cache for feed documents,
// used by the embedding server to avoid refetching the upstream feed
// on every request.
package cache

import (
	"sync"
	"time"

	"github.com/vetmedwire/newswidget/internal/feed"
)

type entry struct {
	doc       *feed.Document
	expiresAt time.Time
}

type Cache struct {
	mu    sync.Mutex
	items map[string]entry
}

func New() *Cache {
	c := &Cache{
		items: make(map[string]entry),
	}

	// Cleanup expired entries every hour
	go c.cleanupLoop()

	return c
}

func (c *Cache) Set(key string, doc *feed.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{
		doc:       doc,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *Cache) Get(key string) (*feed.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}

	return e.doc, true
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
		}
	}
}
