// Package debounce provides a cancellable timer for coalescing bursts
// of input events into a single handler run.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays a function until the interval passes without a new
// trigger. Each Trigger cancels the previously scheduled run.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

func New(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn after the debounce interval, replacing any
// pending run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Flush cancels any pending run and executes fn synchronously. This is
// the bypass path for inputs that must take effect immediately, such
// as the Escape key clearing a search.
func (d *Debouncer) Flush(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	fn()
}

// Stop cancels any pending run without executing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
