package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrRendererDisabled indicates rendering has been disabled via configuration.
var ErrRendererDisabled = errors.New("renderer disabled")

// HeadlessOptions tunes the chromedp renderer.
type HeadlessOptions struct {
	MaxParallel int
	NavTimeout  time.Duration
	UserAgent   string
}

// ChromedpRenderer renders pages using headless Chrome via chromedp.
type ChromedpRenderer struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	logger          *zap.Logger
	sem             chan struct{}
	timeout         time.Duration
}

// NewChromedpRenderer creates a renderer using the provided options.
func NewChromedpRenderer(opts HeadlessOptions, logger *zap.Logger) (*ChromedpRenderer, error) {
	if opts.MaxParallel <= 0 {
		return nil, ErrRendererDisabled
	}
	timeout := opts.NavTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &ChromedpRenderer{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		logger:          logger,
		sem:             make(chan struct{}, opts.MaxParallel),
		timeout:         timeout,
	}, nil
}

// Close tears down the chromedp allocator and browser contexts.
func (r *ChromedpRenderer) Close() {
	if r == nil {
		return
	}
	r.browserCancel()
	r.allocatorCancel()
}

// Fetch executes the page with JavaScript enabled and returns the DOM
// snapshot. Rendered pages report status 200; navigation failures
// surface as errors.
func (r *ChromedpRenderer) Fetch(ctx context.Context, rawURL string) (Page, error) {
	if r == nil {
		return Page{}, ErrRendererDisabled
	}

	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTask()

	stop := forwardCancel(ctx, cancelTask)
	defer stop()

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return Page{}, fmt.Errorf("chromedp run: %w", err)
	}

	return Page{
		URL:        rawURL,
		FinalURL:   rawURL,
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body:       []byte(html),
		Duration:   time.Since(start),
	}, nil
}

func forwardCancel(ctx context.Context, cancel context.CancelFunc) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// PromotingFetcher probes with a plain fetcher and promotes to the
// headless renderer when the detector flags a JavaScript shell. Promotion
// failures fall back to the probe result.
type PromotingFetcher struct {
	probe    Fetcher
	renderer Fetcher
	detector *HeuristicDetector
	logger   *zap.Logger
}

// NewPromotingFetcher composes probe, detector and renderer. A nil
// renderer or detector disables promotion.
func NewPromotingFetcher(probe Fetcher, renderer Fetcher, detector *HeuristicDetector, logger *zap.Logger) *PromotingFetcher {
	return &PromotingFetcher{
		probe:    probe,
		renderer: renderer,
		detector: detector,
		logger:   logger,
	}
}

// Fetch probes the URL and, when warranted, re-fetches through the renderer.
func (f *PromotingFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	page, err := f.probe.Fetch(ctx, rawURL)
	if err != nil {
		return Page{}, err
	}
	if f.renderer == nil || f.detector == nil || !f.detector.NeedsJS(page) {
		return page, nil
	}

	f.logger.Debug("promoting fetch to headless renderer",
		zap.String("url", rawURL),
		zap.String("host", page.Host()),
	)
	rendered, err := f.renderer.Fetch(ctx, rawURL)
	if err != nil {
		f.logger.Warn("headless promotion failed, using probe result",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return page, nil
	}
	return rendered, nil
}
