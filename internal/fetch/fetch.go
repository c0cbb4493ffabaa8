// Package fetch provides the page-fetch capability used by discovery and
// crawling: a Colly-based probe fetcher, an optional headless renderer
// for JavaScript-shell sites, and a bounded retry policy.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Page is the result of fetching a single URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Host returns the lowercased host of the page's original URL, or an
// empty string when the URL does not parse.
func (p Page) Host() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Fetcher fetches one URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Config captures fetcher tuning knobs.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}
