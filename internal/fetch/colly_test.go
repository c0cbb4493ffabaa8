package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFetcher(t *testing.T) *CollyFetcher {
	t.Helper()
	f, err := NewCollyFetcher(Config{
		UserAgent:      "menu-pipeline-test",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return f
}

func TestCollyFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	page, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Contains(t, string(page.Body), "hello")
	require.Equal(t, srv.URL, page.URL)
}

func TestCollyFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestCollyFetcherRepeatFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>again</body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	for i := 0; i < 2; i++ {
		page, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Contains(t, string(page.Body), "again")
	}
}
