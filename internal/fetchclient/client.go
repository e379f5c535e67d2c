// Package fetchclient performs the widget's single-attempt feed fetch.
package fetchclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vetmedwire/newswidget/internal/feed"
)

// Client fetches feed documents over HTTP. One attempt per call: no
// retries, no backoff. Every failure mode (network error, timeout,
// non-2xx status, undecodable body) comes back as an error for the
// caller to treat uniformly as "no data".
type Client struct {
	http *http.Client
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves and decodes the feed document at url. Cancelling ctx
// aborts the request in flight.
func (c *Client) Fetch(ctx context.Context, url string) (*feed.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed HTTP error: %d", resp.StatusCode)
	}

	return feed.Decode(resp.Body)
}
