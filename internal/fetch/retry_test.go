package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	failures int
	calls    int
	page     Page
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (Page, error) {
	s.calls++
	if s.calls <= s.failures {
		return Page{}, errors.New("boom")
	}
	return s.page, nil
}

func testPolicy() *ExponentialRetryPolicy {
	return NewExponentialRetryPolicy(Config{
		MaxRetries:     2,
		BackoffInitial: time.Millisecond,
		BackoffMax:     2 * time.Millisecond,
	})
}

func TestRetryingFetcherRecovers(t *testing.T) {
	stub := &stubFetcher{failures: 2, page: Page{StatusCode: 200}}
	f := NewRetryingFetcher(stub, testPolicy(), zap.NewNop())

	page, err := f.Fetch(context.Background(), "http://example.com")
	require.NoError(t, err)
	require.Equal(t, 200, page.StatusCode)
	require.Equal(t, 3, stub.calls)
}

func TestRetryingFetcherGivesUp(t *testing.T) {
	stub := &stubFetcher{failures: 10}
	f := NewRetryingFetcher(stub, testPolicy(), zap.NewNop())

	_, err := f.Fetch(context.Background(), "http://example.com")
	require.Error(t, err)
	require.Equal(t, 3, stub.calls) // initial + 2 retries
}

func TestShouldRetryStopsOnCancellation(t *testing.T) {
	p := testPolicy()
	require.False(t, p.ShouldRetry(context.Canceled, 0))
	require.False(t, p.ShouldRetry(context.DeadlineExceeded, 0))
	require.False(t, p.ShouldRetry(nil, 0))
	require.True(t, p.ShouldRetry(errors.New("transient"), 0))
	require.False(t, p.ShouldRetry(errors.New("transient"), 5))
}

func TestBackoffBounded(t *testing.T) {
	p := testPolicy()
	for attempt := 0; attempt < 6; attempt++ {
		d := p.Backoff(attempt)
		require.GreaterOrEqual(t, d, time.Duration(0))
		require.LessOrEqual(t, d, 2*time.Millisecond)
	}
}
