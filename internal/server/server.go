// Package server is the embedding server: it serves the demo host page
// with the widget mounted, the widget stylesheet, the feed document,
// and fragment endpoints that drive the widget's search and scroll
// behavior.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/vetmedwire/newswidget/internal/cache"
	"github.com/vetmedwire/newswidget/internal/config"
	"github.com/vetmedwire/newswidget/internal/fetchclient"
	"github.com/vetmedwire/newswidget/internal/logger"
	"github.com/vetmedwire/newswidget/internal/metrics"
	"github.com/vetmedwire/newswidget/internal/page"
	"github.com/vetmedwire/newswidget/internal/storage"
	"github.com/vetmedwire/newswidget/internal/widget"
	"github.com/vetmedwire/newswidget/web"
)

const feedCacheKey = "feed"

type Server struct {
	cfg     *config.Config
	cache   *cache.Cache
	store   *storage.FeedFile
	limiter *rate.Limiter
	client  *fetchclient.Client

	mu     sync.Mutex
	page   *page.Page
	widget *widget.Widget
}

func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		cache:   cache.New(),
		limiter: rate.NewLimiter(rate.Limit(cfg.ProxyRate), cfg.ProxyBurst),
		client:  fetchclient.New(cfg.RequestTimeout),
	}
	if cfg.FeedUpstream != "" {
		s.store = storage.NewFeedFile(cfg.FeedFilePath, cfg.FeedMaxAge)
	}
	return s
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/news.json", s.handleFeed)
	mux.Handle("/static/", http.FileServer(http.FS(web.Assets)))
	mux.HandleFunc("/widget/filter", s.handleFilter)
	mux.HandleFunc("/widget/scroll", s.handleScroll)
	return mux
}

// ensureWidget lazily parses the demo page and mounts the widget into
// it. The page and widget live for the whole process so the fragment
// endpoints share their state.
func (s *Server) ensureWidget(ctx context.Context) (*widget.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.widget != nil {
		return s.widget, nil
	}

	raw, err := web.Assets.ReadFile("demo.html")
	if err != nil {
		return nil, fmt.Errorf("read demo page: %w", err)
	}
	p, err := page.ParseString(string(raw))
	if err != nil {
		return nil, err
	}

	feedURL := s.cfg.FeedURL
	if feedURL == "" {
		feedURL = fmt.Sprintf("http://localhost:%s/news.json", s.cfg.Port)
	}

	w := widget.New(p, widget.Options{
		Target:               s.cfg.Target,
		FeedURL:              feedURL,
		StylesheetHref:       "/static/widget.css",
		Height:               s.cfg.Height,
		MaxItems:             s.cfg.MaxItems,
		EnableSearch:         s.cfg.EnableSearch,
		EnableInfiniteScroll: s.cfg.EnableInfiniteScroll,
		Debounce:             s.cfg.DebounceInterval,
		Timeout:              s.cfg.RequestTimeout,
	})
	w.Mount(ctx)

	s.page = p
	s.widget = w
	return w, nil
}

// handleIndex serves the demo host page with the widget rendered in.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if _, err := s.ensureWidget(r.Context()); err != nil {
		logger.Error("demo page setup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	html, err := s.page.Serialize()
	s.mu.Unlock()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// handleFeed serves the feed document, from the local file or the
// configured upstream. Upstream fetches are rate limited and cached,
// and the last good document is kept on disk so an upstream outage
// degrades to stale news instead of none.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	metrics.Global.IncrementFeedsServed()

	if s.cfg.FeedUpstream == "" {
		data, err := os.ReadFile(s.cfg.FeedPath)
		if err != nil {
			logger.Error("feed file missing", "path", s.cfg.FeedPath, "error", err)
			http.Error(w, "feed not found", http.StatusNotFound)
			return
		}
		writeFeedBytes(w, data)
		return
	}

	if doc, ok := s.cache.Get(feedCacheKey); ok {
		writeFeedJSON(w, doc)
		return
	}

	if !s.limiter.Allow() {
		if doc, err := s.store.Load(); err == nil {
			writeFeedJSON(w, doc)
			return
		}
		http.Error(w, "feed temporarily unavailable", http.StatusTooManyRequests)
		return
	}

	doc, err := s.client.Fetch(r.Context(), s.cfg.FeedUpstream)
	if err != nil {
		logger.Warn("upstream feed fetch failed", "url", s.cfg.FeedUpstream, "error", err)
		metrics.Global.SetError(err.Error())
		if doc, err := s.store.Load(); err == nil {
			writeFeedJSON(w, doc)
			return
		}
		http.Error(w, "feed unavailable", http.StatusBadGateway)
		return
	}

	s.cache.Set(feedCacheKey, doc, s.cfg.FeedCacheTTL)
	if err := s.store.Save(doc); err != nil {
		logger.Warn("could not persist feed snapshot", "error", err)
	}
	writeFeedJSON(w, doc)
}

// handleFilter applies a search query and returns the re-rendered
// widget fragment. An empty q clears the filter.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	wid, err := s.ensureWidget(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		wid.ClearFilter()
	} else {
		wid.FilterNow(q)
	}
	s.writeFragment(w, wid)
}

// handleScroll reports a scroll position and returns the re-rendered
// widget fragment, including any appended loop pass.
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	wid, err := s.ensureWidget(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	offset := queryInt(r, "offset")
	viewport := queryInt(r, "viewport")
	content := queryInt(r, "content")
	wid.ScrollTo(offset, viewport, content)
	s.writeFragment(w, wid)
}

func (s *Server) writeFragment(w http.ResponseWriter, wid *widget.Widget) {
	html, err := wid.ContainerHTML()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func writeFeedJSON(w http.ResponseWriter, doc interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(doc)
}

func writeFeedBytes(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}
