// Package enrich attaches image URLs to extracted menus using an image
// search backend.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/metrics"
)

// ImageSearcher returns image URLs for a free-text query.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, limit int) ([]string, error)
}

// CSESearcher queries the Google Custom Search JSON API in image mode.
type CSESearcher struct {
	httpClient      *http.Client
	endpoint        string
	apiKey          string
	engineID        string
	excludedDomains []string
	logger          *zap.Logger
}

const defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// NewCSESearcher builds a searcher for the given API key and search
// engine id. excludedDomains are appended to every query as -site:
// terms; image hosts that serve opaque proxy URLs belong there.
func NewCSESearcher(httpClient *http.Client, apiKey, engineID string, excludedDomains []string, logger *zap.Logger) *CSESearcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CSESearcher{
		httpClient:      httpClient,
		endpoint:        defaultEndpoint,
		apiKey:          apiKey,
		engineID:        engineID,
		excludedDomains: excludedDomains,
		logger:          logger,
	}
}

type cseResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// SearchImages runs one image search and returns up to limit links.
func (s *CSESearcher) SearchImages(ctx context.Context, query string, limit int) ([]string, error) {
	full := query
	for _, domain := range s.excludedDomains {
		full += " -site:" + domain
	}

	params := url.Values{}
	params.Set("q", full)
	params.Set("num", strconv.Itoa(limit))
	params.Set("start", "1")
	params.Set("imgSize", "huge")
	params.Set("searchType", "image")
	params.Set("key", s.apiKey)
	params.Set("cx", s.engineID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Warn("close search response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("image search status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed cseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	links := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}

// search wraps an ImageSearcher call with the fail-soft contract the
// enricher wants: failures are logged and counted, and yield an empty
// list rather than an error.
func search(ctx context.Context, searcher ImageSearcher, query string, limit int, logger *zap.Logger) []string {
	links, err := searcher.SearchImages(ctx, query, limit)
	if err != nil {
		metrics.ImageQuery("failed")
		logger.Warn("image search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return []string{}
	}
	metrics.ImageQuery("ok")
	return links
}
