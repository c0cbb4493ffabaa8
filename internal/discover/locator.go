package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/fetch"
)

// ErrNoMenuPage indicates no link on the homepage scored above the
// similarity cutoff.
var ErrNoMenuPage = errors.New("no menu-like page found")

// Locator picks the most menu-like page linked from a homepage and
// returns its body markup.
type Locator struct {
	fetcher  fetch.Fetcher
	keyword  string
	minScore float64
	metric   *metrics.Levenshtein
	logger   *zap.Logger
}

// NewLocator builds a Locator. keyword is matched against lowercased
// link paths; minScore is the 0-100 cutoff below which candidates are
// discarded.
func NewLocator(fetcher fetch.Fetcher, keyword string, minScore float64, logger *zap.Logger) *Locator {
	return &Locator{
		fetcher:  fetcher,
		keyword:  strings.ToLower(keyword),
		minScore: minScore,
		metric:   metrics.NewLevenshtein(),
		logger:   logger,
	}
}

// Score returns the 0-100 similarity between a link path and the
// locator keyword.
func (l *Locator) Score(path string) float64 {
	return strutil.Similarity(strings.ToLower(path), l.keyword, l.metric) * 100
}

// Locate fetches the homepage, scores its same-domain links against the
// keyword, fetches the best-scoring candidate and returns the inner
// markup of its body element. Ties keep the first-discovered link.
func (l *Locator) Locate(ctx context.Context, homepage string) (string, error) {
	page, err := l.fetcher.Fetch(ctx, homepage)
	if err != nil {
		return "", fmt.Errorf("fetch homepage: %w", err)
	}
	if !success(page.StatusCode) {
		return "", fmt.Errorf("fetch homepage: unexpected status %d", page.StatusCode)
	}

	links, err := Links(homepage, page.Body)
	if err != nil {
		return "", fmt.Errorf("discover links: %w", err)
	}

	best := ""
	bestScore := 0.0
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		score := l.Score(u.Path)
		if score < l.minScore {
			continue
		}
		// Strictly greater keeps the earliest link on equal scores.
		if score > bestScore {
			best = link
			bestScore = score
		}
	}
	if best == "" {
		return "", ErrNoMenuPage
	}
	l.logger.Debug("menu page candidate selected",
		zap.String("url", best),
		zap.Float64("score", bestScore),
	)

	menuPage, err := l.fetcher.Fetch(ctx, best)
	if err != nil {
		return "", fmt.Errorf("fetch menu page: %w", err)
	}
	if !success(menuPage.StatusCode) {
		return "", fmt.Errorf("fetch menu page: unexpected status %d", menuPage.StatusCode)
	}

	return bodyMarkup(menuPage.Body)
}

// bodyMarkup returns only the inner markup of the body element, keeping
// the downstream payload free of head and script boilerplate. The parser
// synthesizes a body element for any input, so the failure mode is a
// body with no content left once scripts are stripped.
func bodyMarkup(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse menu page: %w", err)
	}
	sel := doc.Find("body")
	sel.Find("script").Remove()
	html, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("render body markup: %w", err)
	}
	if strings.TrimSpace(html) == "" {
		return "", fmt.Errorf("menu page body is empty")
	}
	return html, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
