// Package widget wires fetch, render, search and scroll behavior into
// a news widget mounted on a host page.
package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vetmedwire/newswidget/internal/debounce"
	"github.com/vetmedwire/newswidget/internal/feed"
	"github.com/vetmedwire/newswidget/internal/fetchclient"
	"github.com/vetmedwire/newswidget/internal/logger"
	"github.com/vetmedwire/newswidget/internal/metrics"
	"github.com/vetmedwire/newswidget/internal/page"
	"github.com/vetmedwire/newswidget/internal/render"
	"github.com/vetmedwire/newswidget/internal/scroll"
	"github.com/vetmedwire/newswidget/internal/search"
)

const (
	// DefaultTarget is the well-known mount selector used when none is
	// configured and by auto-mounting.
	DefaultTarget = "#vetmed-news"

	// DefaultHeight caps the visible height of the item list in pixels.
	DefaultHeight = 500

	// DefaultDebounce is how long keystrokes must pause before a
	// search filter runs.
	DefaultDebounce = 200 * time.Millisecond

	// ManualAttr on the default mount element suppresses auto-mounting.
	ManualAttr = "data-vetnews-manual"

	// nearTopPx is the scroll offset under which the widget counts as
	// sitting at the top of the list.
	nearTopPx = 10
)

// Options configures a widget instance. Zero values select defaults.
type Options struct {
	Target               string
	FeedURL              string
	StylesheetHref       string
	Height               int
	MaxItems             int
	EnableSearch         bool
	EnableInfiniteScroll bool
	Debounce             time.Duration
	Timeout              time.Duration
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	return o
}

// Widget is one mounted news widget. Each instance owns its state, so
// several widgets can live on one page. Operations are serialized
// internally; the state is still meant to have a single logical owner
// and the widget is not designed for heavy concurrent use.
type Widget struct {
	opts   Options
	page   *page.Page
	client *fetchclient.Client
	deb    *debounce.Debouncer

	mu          sync.Mutex
	generation  int
	cancelFetch context.CancelFunc
	allItems    []feed.Item
	lastUpdated string
	query       string
	looper      *scroll.Looper
}

// New prepares a widget over the given host page. Nothing is rendered
// until Mount.
func New(p *page.Page, opts Options) *Widget {
	opts = opts.withDefaults()
	return &Widget{
		opts:   opts,
		page:   p,
		client: fetchclient.New(opts.Timeout),
		deb:    debounce.New(opts.Debounce),
	}
}

// AutoMount mounts a widget into the default mount point if the page
// has one and it is not marked for manual control. Returns nil when
// nothing was mounted.
func AutoMount(ctx context.Context, p *page.Page, opts Options) *Widget {
	opts.Target = DefaultTarget
	sel := p.Find(DefaultTarget)
	if sel.Length() == 0 {
		return nil
	}
	if _, manual := sel.Attr(ManualAttr); manual {
		logger.Debug("default mount is marked manual, skipping auto-mount")
		return nil
	}

	w := New(p, opts)
	w.Mount(ctx)
	return w
}

// Mount resolves the target, injects the stylesheet once, fetches the
// feed and renders it. Errors never escape: a missing target is logged
// and aborts with no page mutation, and any fetch failure renders the
// fixed fallback block so the mount is never left blank.
//
// Calling Mount again cancels a still-running fetch from the previous
// call; a stale response is never applied over a newer one.
func (w *Widget) Mount(ctx context.Context) {
	w.mu.Lock()
	if w.page.Find(w.opts.Target).Length() == 0 {
		w.mu.Unlock()
		logger.Error("widget mount target not found", "target", w.opts.Target)
		return
	}
	if w.opts.StylesheetHref != "" {
		w.page.EnsureStylesheet(w.opts.StylesheetHref)
	}

	if w.cancelFetch != nil {
		w.cancelFetch()
	}
	fctx, cancel := context.WithCancel(ctx)
	w.cancelFetch = cancel
	w.generation++
	gen := w.generation
	url := w.opts.FeedURL
	w.mu.Unlock()

	metrics.Global.IncrementFetchesAttempted()
	doc, err := w.client.Fetch(fctx, url)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		// A newer Mount superseded this fetch; drop the result.
		logger.Debug("discarding stale feed response", "url", url)
		return
	}

	target := w.page.Find(w.opts.Target)
	if err != nil {
		logger.Warn("feed fetch failed, rendering fallback", "url", url, "error", err)
		metrics.Global.IncrementFetchesFailed()
		metrics.Global.IncrementFallbacksRendered()
		target.First().SetHtml(render.Fallback())
		return
	}

	items := doc.Items
	if w.opts.MaxItems > 0 && len(items) > w.opts.MaxItems {
		items = items[:w.opts.MaxItems]
	}
	w.allItems = items
	w.lastUpdated = doc.LastUpdated
	w.query = ""
	w.looper = scroll.NewLooper(len(items), scroll.MaxPasses)

	html, err := render.Fragment(items, doc.LastUpdated, render.Options{
		Height:     w.opts.Height,
		ShowSearch: w.opts.EnableSearch,
	})
	if err != nil {
		logger.Error("widget render failed", "error", err)
		metrics.Global.IncrementFallbacksRendered()
		target.First().SetHtml(render.Fallback())
		return
	}
	target.First().SetHtml(html)

	metrics.Global.IncrementWidgetsMounted()
	logger.Info("widget mounted", "target", w.opts.Target, "items", len(items))
}

// QueueFilter schedules a debounced search filter run for query.
// Successive calls within the debounce interval coalesce into one run.
func (w *Widget) QueueFilter(query string) {
	if !w.opts.EnableSearch {
		return
	}
	w.deb.Trigger(func() {
		w.applyFilter(query)
	})
}

// FilterNow applies a search filter immediately, bypassing the
// debounce timer.
func (w *Widget) FilterNow(query string) {
	if !w.opts.EnableSearch {
		return
	}
	w.deb.Flush(func() {
		w.applyFilter(query)
	})
}

// ClearFilter is the Escape-key path: it cancels any pending filter
// run and restores the full list synchronously.
func (w *Widget) ClearFilter() {
	if !w.opts.EnableSearch {
		return
	}
	w.deb.Flush(func() {
		w.applyFilter("")
	})
}

func (w *Widget) applyFilter(query string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.looper == nil {
		return // not mounted
	}

	q := search.Normalize(query)
	w.query = q
	w.looper.Reset()

	visible := search.Filter(w.allItems, q)

	var listHTML string
	var err error
	if len(visible) == 0 && q != "" {
		listHTML, err = render.NoResults(q)
	} else {
		listHTML, err = render.ItemsHTML(visible, 0)
	}
	if err != nil {
		logger.Error("filter render failed", "error", err)
		return
	}

	target := w.page.Find(w.opts.Target)
	target.Find(".vetnews-list").SetHtml(listHTML)
	target.Find(".vetnews-count").SetText(fmt.Sprintf("%d articles", len(visible)))

	hint := target.Find(".vetnews-hint")
	if len(visible) <= scroll.HintThreshold {
		hint.AddClass("vetnews-hidden")
	} else {
		hint.RemoveClass("vetnews-hidden")
		hint.SetText(scroll.Hint(true, false, false))
	}

	metrics.Global.IncrementFiltersApplied()
	logger.Debug("filter applied", "query", q, "results", len(visible))
}

// ScrollTo reacts to a scroll position within the list region: within
// 100px of the bottom of the unfiltered list it appends one more pass
// over the item set, up to the loop cap, and it keeps the hint text in
// step with the position. Looping is suspended while a search query is
// active, and past the cap scrolling is a silent no-op.
func (w *Widget) ScrollTo(offset, viewport, content int) {
	if !w.opts.EnableInfiniteScroll {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.looper == nil {
		return // not mounted
	}

	target := w.page.Find(w.opts.Target)

	if strings.TrimSpace(w.query) == "" && scroll.NearBottom(offset, viewport, content) {
		if batch, ok := w.looper.NextBatch(); ok {
			var b strings.Builder
			for _, cl := range batch {
				frag, err := render.ItemHTML(w.allItems[cl.Source], cl.Position)
				if err != nil {
					logger.Error("scroll render failed", "error", err)
					return
				}
				b.WriteString(frag)
			}
			target.Find(".vetnews-list").AppendHtml(b.String())
			metrics.Global.IncrementScrollLoopsAppended()
			logger.Debug("scroll loop appended", "pass", w.looper.Rendered()/max(len(w.allItems), 1))
		}
	}

	atTop := offset <= nearTopPx
	target.Find(".vetnews-hint").SetText(scroll.Hint(atTop, w.looper.Looped(), w.looper.Exhausted()))
}

// Items returns the unfiltered item set captured at mount time.
func (w *Widget) Items() []feed.Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.allItems
}

// Query returns the active normalized search query.
func (w *Widget) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// ContainerHTML returns the current inner HTML of the mount element.
func (w *Widget) ContainerHTML() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sel := w.page.Find(w.opts.Target)
	if sel.Length() == 0 {
		return "", fmt.Errorf("mount target %q not found", w.opts.Target)
	}
	return sel.First().Html()
}

// Close cancels pending work. The widget must not be used afterwards.
func (w *Widget) Close() {
	w.deb.Stop()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancelFetch != nil {
		w.cancelFetch()
	}
}
