package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/fetch"
)

type mapFetcher struct {
	pages map[string]fetch.Page
}

func (m *mapFetcher) Fetch(_ context.Context, rawURL string) (fetch.Page, error) {
	page, ok := m.pages[rawURL]
	if !ok {
		return fetch.Page{}, errors.New("connection refused")
	}
	return page, nil
}

func page(status int, body string) fetch.Page {
	return fetch.Page{StatusCode: status, Body: []byte(body)}
}

func TestLocateSelectsBestScoringLink(t *testing.T) {
	home := `<html><body>
		<a href="/menu">Menu</a>
		<a href="/about-us">About</a>
		<a href="/contact">Contact</a>
	</body></html>`
	menuBody := `<html><head><title>x</title></head>` +
		`<body><h1>Dinner Menu</h1><script>track()</script></body></html>`

	f := &mapFetcher{pages: map[string]fetch.Page{
		"https://example.com":      page(200, home),
		"https://example.com/menu": page(200, menuBody),
	}}
	loc := NewLocator(f, "menu", 60, zap.NewNop())

	markup, err := loc.Locate(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Contains(t, markup, "Dinner Menu")
	require.NotContains(t, markup, "track()")
	require.NotContains(t, markup, "<title>")
}

func TestLocateNoMenuPage(t *testing.T) {
	home := `<html><body>
		<a href="/about-us">About</a>
		<a href="/contact">Contact</a>
	</body></html>`
	f := &mapFetcher{pages: map[string]fetch.Page{
		"https://example.com": page(200, home),
	}}
	loc := NewLocator(f, "menu", 60, zap.NewNop())

	_, err := loc.Locate(context.Background(), "https://example.com")
	require.ErrorIs(t, err, ErrNoMenuPage)
}

func TestLocateMenuFetchFailure(t *testing.T) {
	home := `<html><body><a href="/menu">Menu</a></body></html>`
	f := &mapFetcher{pages: map[string]fetch.Page{
		"https://example.com":      page(200, home),
		"https://example.com/menu": page(500, "oops"),
	}}
	loc := NewLocator(f, "menu", 60, zap.NewNop())

	_, err := loc.Locate(context.Background(), "https://example.com")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoMenuPage)
}

func TestLocateEmptyMenuBody(t *testing.T) {
	home := `<html><body><a href="/menu">Menu</a></body></html>`
	// Script-only body: nothing usable remains after stripping.
	menuBody := `<html><body><script>renderApp()</script></body></html>`
	f := &mapFetcher{pages: map[string]fetch.Page{
		"https://example.com":      page(200, home),
		"https://example.com/menu": page(200, menuBody),
	}}
	loc := NewLocator(f, "menu", 60, zap.NewNop())

	_, err := loc.Locate(context.Background(), "https://example.com")
	require.ErrorContains(t, err, "body is empty")
}

func TestScoreOrdering(t *testing.T) {
	loc := NewLocator(nil, "menu", 60, zap.NewNop())

	menuScore := loc.Score("/menu")
	aboutScore := loc.Score("/about-us")
	contactScore := loc.Score("/contact")

	require.GreaterOrEqual(t, menuScore, 60.0)
	require.Less(t, aboutScore, 60.0)
	require.Less(t, contactScore, 60.0)
	require.Greater(t, menuScore, aboutScore)
	require.Greater(t, menuScore, contactScore)
}
