// Package sitecrawl walks a restaurant site depth-first and persists the
// raw HTML of its leaf pages.
package sitecrawl

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/discover"
	"github.com/dishcovery/menu-pipeline/internal/fetch"
	"github.com/dishcovery/menu-pipeline/internal/metrics"
	"github.com/dishcovery/menu-pipeline/internal/storage"
)

// Crawler traverses same-domain links up to a depth bound, saving pages
// that link to nothing unvisited. Pages with children are not saved.
type Crawler struct {
	fetcher  fetch.Fetcher
	store    storage.Provider
	prefix   string
	maxDepth int
	logger   *zap.Logger
}

// New constructs a Crawler. prefix namespaces the saved objects inside
// the blob store.
func New(fetcher fetch.Fetcher, store storage.Provider, prefix string, maxDepth int, logger *zap.Logger) *Crawler {
	return &Crawler{
		fetcher:  fetcher,
		store:    store,
		prefix:   prefix,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

type target struct {
	url   string
	depth int
}

// crawlContext is the per-invocation traversal state. It is created
// fresh for every Crawl call and never shared, so concurrent crawls of
// different sites cannot observe each other's visited sets.
type crawlContext struct {
	visited map[string]struct{}
}

// Crawl walks the site starting at startURL. Fetch failures abandon the
// failing branch and are not fatal to siblings; the only error returned
// is context cancellation.
func (c *Crawler) Crawl(ctx context.Context, startURL string) error {
	start, err := url.Parse(startURL)
	if err != nil {
		return fmt.Errorf("parse start url: %w", err)
	}
	root := discover.NormalizeURL(start)

	cc := &crawlContext{visited: make(map[string]struct{})}
	cc.visited[root] = struct{}{}
	stack := []target{{url: root, depth: 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c.logger.Debug("crawling",
			zap.String("url", t.url),
			zap.Int("depth", t.depth),
		)
		page, err := c.fetcher.Fetch(ctx, t.url)
		if err != nil {
			metrics.PageFetched("failed")
			c.logger.Warn("fetch failed, abandoning branch",
				zap.String("url", t.url),
				zap.Error(err),
			)
			continue
		}
		if page.StatusCode < 200 || page.StatusCode >= 300 {
			metrics.PageFetched("failed")
			c.logger.Warn("unexpected status, abandoning branch",
				zap.String("url", t.url),
				zap.Int("status", page.StatusCode),
			)
			continue
		}
		metrics.PageFetched("ok")

		links, err := discover.Links(t.url, page.Body)
		if err != nil {
			c.logger.Warn("link discovery failed",
				zap.String("url", t.url),
				zap.Error(err),
			)
			continue
		}

		var unvisited []string
		for _, link := range links {
			if _, ok := cc.visited[link]; !ok {
				unvisited = append(unvisited, link)
			}
		}

		if len(unvisited) == 0 {
			c.save(ctx, t.url, page.Body)
			continue
		}
		if t.depth >= c.maxDepth {
			// Children would exceed the depth bound; neither they nor
			// this branching page are saved.
			continue
		}
		// Push in reverse so links pop in document order.
		for i := len(unvisited) - 1; i >= 0; i-- {
			link := unvisited[i]
			cc.visited[link] = struct{}{}
			stack = append(stack, target{url: link, depth: t.depth + 1})
		}
	}
	return nil
}

func (c *Crawler) save(ctx context.Context, rawURL string, body []byte) {
	name := path.Join(c.prefix, leafObjectName(rawURL))
	if err := c.store.Save(ctx, name, body); err != nil {
		c.logger.Error("save leaf page failed",
			zap.String("url", rawURL),
			zap.String("object", name),
			zap.Error(err),
		)
		return
	}
	metrics.PageSaved()
	c.logger.Info("leaf page saved",
		zap.String("url", rawURL),
		zap.String("object", name),
	)
}

// leafObjectName derives a flat file name from the URL path: slashes
// become underscores and the root path becomes "index".
func leafObjectName(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = strings.ReplaceAll(strings.Trim(u.Path, "/"), "/", "_")
	}
	if name == "" {
		name = "index"
	}
	return name + ".html"
}
