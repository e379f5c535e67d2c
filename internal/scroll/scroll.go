// Package scroll implements the simulated infinite scroll: the same N
// items repeat, produced by re-rendering indices modulo N rather than
// by cloning rendered nodes.
package scroll

const (
	// NearBottomPx is how close to the bottom of the list region the
	// scroll position must be before the next batch is appended.
	NearBottomPx = 100

	// MaxPasses caps the total render passes over the item set,
	// including the initial one, so the list never grows past
	// MaxPasses times the original item count.
	MaxPasses = 10

	// HintThreshold is the result count at or below which the scroll
	// hint is hidden.
	HintThreshold = 5
)

// Clone names one re-rendered item: Source is the index into the real
// item set, Position is the unique index attribute the rendered copy
// carries.
type Clone struct {
	Source   int
	Position int
}

// Looper tracks how many passes over the item set have been rendered.
type Looper struct {
	n         int
	maxPasses int
	passes    int
}

// NewLooper returns a looper over n real items. maxPasses <= 0 selects
// the default cap.
func NewLooper(n, maxPasses int) *Looper {
	if maxPasses <= 0 {
		maxPasses = MaxPasses
	}
	return &Looper{n: n, maxPasses: maxPasses, passes: 1}
}

// NextBatch returns the clones for one more pass over the item set, or
// false when the looper is exhausted. Positions are offset by
// n × passes so every rendered copy keeps a unique index.
func (l *Looper) NextBatch() ([]Clone, bool) {
	if l.Exhausted() {
		return nil, false
	}

	batch := make([]Clone, l.n)
	for i := 0; i < l.n; i++ {
		batch[i] = Clone{Source: i, Position: l.passes*l.n + i}
	}
	l.passes++
	return batch, true
}

// Exhausted reports whether further scrolling is a no-op.
func (l *Looper) Exhausted() bool {
	return l.n == 0 || l.passes >= l.maxPasses
}

// Looped reports whether at least one repeat pass has been rendered.
func (l *Looper) Looped() bool {
	return l.passes > 1
}

// Rendered is the number of item elements currently in the list.
func (l *Looper) Rendered() int {
	return l.n * l.passes
}

// Reset drops all repeat passes, as after a re-render of the plain
// item list.
func (l *Looper) Reset() {
	l.passes = 1
}

// NearBottom reports whether a scroll offset is within NearBottomPx of
// the end of the content.
func NearBottom(offset, viewport, content int) bool {
	return content-(offset+viewport) <= NearBottomPx
}

// Hint returns the scroll hint text for the current position and loop
// state.
func Hint(atTop, looped, exhausted bool) string {
	switch {
	case exhausted:
		return "That's everything for today"
	case looped:
		return "Looping back through today's stories ↓"
	case atTop:
		return "Scroll for more ↓"
	default:
		return "Keep scrolling ↓"
	}
}
