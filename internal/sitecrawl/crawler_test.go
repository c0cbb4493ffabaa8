package sitecrawl

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/fetch"
	"github.com/dishcovery/menu-pipeline/internal/storage"
)

type siteFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *siteFetcher) Fetch(_ context.Context, rawURL string) (fetch.Page, error) {
	f.fetched = append(f.fetched, rawURL)
	body, ok := f.pages[rawURL]
	if !ok {
		return fetch.Page{}, fmt.Errorf("fetch %s: connection refused", rawURL)
	}
	return fetch.Page{URL: rawURL, FinalURL: rawURL, StatusCode: 200, Body: []byte(body)}, nil
}

func link(path string) string {
	return fmt.Sprintf(`<a href="%s">x</a>`, path)
}

func TestCrawlSavesOnlyLeafPages(t *testing.T) {
	fetcher := &siteFetcher{pages: map[string]string{
		"https://example.com":       link("/menu") + link("/about"),
		"https://example.com/menu":  "<p>dinner</p>",
		"https://example.com/about": "<p>our story</p>",
	}}
	store := storage.NewMemoryProvider()
	crawler := New(fetcher, store, "saved_menus", 2, zap.NewNop())

	require.NoError(t, crawler.Crawl(context.Background(), "https://example.com/"))

	require.ElementsMatch(t,
		[]string{"saved_menus/menu.html", "saved_menus/about.html"},
		store.ObjectNames(),
	)
	body, ok := store.Object("saved_menus/menu.html")
	require.True(t, ok)
	require.Equal(t, "<p>dinner</p>", string(body))
}

func TestCrawlNeverFetchesTwice(t *testing.T) {
	// Every page links back to the root and to each other.
	fetcher := &siteFetcher{pages: map[string]string{
		"https://example.com":      link("/") + link("/menu"),
		"https://example.com/menu": link("/") + link("/menu"),
	}}
	crawler := New(fetcher, storage.NewMemoryProvider(), "pages", 3, zap.NewNop())

	require.NoError(t, crawler.Crawl(context.Background(), "https://example.com"))

	seen := make(map[string]int)
	for _, u := range fetcher.fetched {
		seen[u]++
	}
	for u, n := range seen {
		require.Equalf(t, 1, n, "url %s fetched %d times", u, n)
	}
}

func TestCrawlRespectsDepthBound(t *testing.T) {
	fetcher := &siteFetcher{pages: map[string]string{
		"https://example.com":       link("/a"),
		"https://example.com/a":     link("/a/b"),
		"https://example.com/a/b":   link("/a/b/c"),
		"https://example.com/a/b/c": "<p>too deep</p>",
	}}
	store := storage.NewMemoryProvider()
	crawler := New(fetcher, store, "pages", 2, zap.NewNop())

	require.NoError(t, crawler.Crawl(context.Background(), "https://example.com"))

	require.NotContains(t, fetcher.fetched, "https://example.com/a/b/c")
	// /a/b still links somewhere unvisited, so it branches at the bound
	// and nothing is saved for it.
	require.Empty(t, store.ObjectNames())
}

func TestCrawlAbandonsFailedBranch(t *testing.T) {
	fetcher := &siteFetcher{pages: map[string]string{
		"https://example.com":       link("/broken") + link("/about"),
		"https://example.com/about": "<p>fine</p>",
	}}
	store := storage.NewMemoryProvider()
	crawler := New(fetcher, store, "pages", 2, zap.NewNop())

	require.NoError(t, crawler.Crawl(context.Background(), "https://example.com"))

	require.ElementsMatch(t, []string{"pages/about.html"}, store.ObjectNames())
}

func TestCrawlStopsOnCancelledContext(t *testing.T) {
	fetcher := &siteFetcher{pages: map[string]string{
		"https://example.com": "<p>root</p>",
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	crawler := New(fetcher, storage.NewMemoryProvider(), "pages", 2, zap.NewNop())
	require.ErrorIs(t, crawler.Crawl(ctx, "https://example.com"), context.Canceled)
	require.Empty(t, fetcher.fetched)
}

func TestLeafObjectName(t *testing.T) {
	cases := map[string]string{
		"https://example.com":              "index.html",
		"https://example.com/":             "index.html",
		"https://example.com/menu":         "menu.html",
		"https://example.com/food/dinner":  "food_dinner.html",
		"https://example.com/food/dinner/": "food_dinner.html",
	}
	for rawURL, want := range cases {
		require.Equal(t, want, leafObjectName(rawURL), rawURL)
	}
}
