package fetch

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"net"
	"time"

	"go.uber.org/zap"
)

// ExponentialRetryPolicy implements jittered exponential backoff.
type ExponentialRetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// NewExponentialRetryPolicy builds a policy from fetcher config,
// substituting sane defaults for zero values.
func NewExponentialRetryPolicy(cfg Config) *ExponentialRetryPolicy {
	p := &ExponentialRetryPolicy{
		maxAttempts: cfg.MaxRetries,
		baseDelay:   cfg.BackoffInitial,
		maxDelay:    cfg.BackoffMax,
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = 2
	}
	if p.baseDelay <= 0 {
		p.baseDelay = 250 * time.Millisecond
	}
	if p.maxDelay <= 0 {
		p.maxDelay = 5 * time.Second
	}
	return p
}

// ShouldRetry decides whether the error is retryable at the given attempt.
func (p *ExponentialRetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return true
}

// Backoff returns the wait duration before the next attempt.
func (p *ExponentialRetryPolicy) Backoff(attempt int) time.Duration {
	delay := float64(p.baseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(p.maxDelay) {
		delay = float64(p.maxDelay)
	}
	jitter := randomJitter(time.Duration(delay) / 2)
	return time.Duration(delay/2) + jitter
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	bound := big.NewInt(int64(limit))
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}

// RetryingFetcher wraps a Fetcher with the retry policy. Retries stop as
// soon as the context is done; an in-flight fetch is never interrupted,
// only the next attempt is withheld.
type RetryingFetcher struct {
	inner  Fetcher
	policy *ExponentialRetryPolicy
	logger *zap.Logger
}

// NewRetryingFetcher wraps inner with bounded retries.
func NewRetryingFetcher(inner Fetcher, policy *ExponentialRetryPolicy, logger *zap.Logger) *RetryingFetcher {
	return &RetryingFetcher{inner: inner, policy: policy, logger: logger}
}

// Fetch attempts the fetch, backing off between failures.
func (f *RetryingFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		page, err := f.inner.Fetch(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !f.policy.ShouldRetry(err, attempt) {
			break
		}
		f.logger.Warn("fetch retry",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-time.After(f.policy.Backoff(attempt)):
		}
	}
	return Page{}, lastErr
}
