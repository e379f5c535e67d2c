package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	WidgetsMounted      int64
	FetchesAttempted    int64
	FetchesFailed       int64
	FallbacksRendered   int64
	FiltersApplied      int64
	ScrollLoopsAppended int64
	FeedsServed         int64
	ItemsExported       int64

	// Status
	LastMountTime time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementWidgetsMounted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WidgetsMounted++
	m.LastMountTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) IncrementFetchesAttempted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchesAttempted++
}

func (m *Metrics) IncrementFetchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchesFailed++
}

func (m *Metrics) IncrementFallbacksRendered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbacksRendered++
}

func (m *Metrics) IncrementFiltersApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FiltersApplied++
}

func (m *Metrics) IncrementScrollLoopsAppended() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScrollLoopsAppended++
}

func (m *Metrics) IncrementFeedsServed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsServed++
}

func (m *Metrics) AddItemsExported(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsExported += int64(n)
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"widgets_mounted":       m.WidgetsMounted,
		"fetches_attempted":     m.FetchesAttempted,
		"fetches_failed":        m.FetchesFailed,
		"fallbacks_rendered":    m.FallbacksRendered,
		"filters_applied":       m.FiltersApplied,
		"scroll_loops_appended": m.ScrollLoopsAppended,
		"feeds_served":          m.FeedsServed,
		"items_exported":        m.ItemsExported,
		"last_mount_time":       m.LastMountTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
