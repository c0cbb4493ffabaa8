package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dishcovery/menu-pipeline/internal/menu"
)

// ErrItemNotFound reports that no item in the document carries the
// requested slug.
var ErrItemNotFound = errors.New("menu item not found")

// Enricher runs image searches for a document's restaurant and items.
// A rate limiter spaces out per-item queries so the search quota is not
// burned in one burst.
type Enricher struct {
	searcher      ImageSearcher
	limiter       *rate.Limiter
	imagesPerItem int
	logger        *zap.Logger
}

// New builds an Enricher. queriesPerSecond caps how fast consecutive
// item queries are issued.
func New(searcher ImageSearcher, queriesPerSecond rate.Limit, imagesPerItem int, logger *zap.Logger) *Enricher {
	return &Enricher{
		searcher:      searcher,
		limiter:       rate.NewLimiter(queriesPerSecond, 1),
		imagesPerItem: imagesPerItem,
		logger:        logger,
	}
}

// EnrichAll fills in the restaurant image and every item's images, in
// place. Search failures leave the affected field empty and never abort
// the pass; the only returned error is context cancellation while
// waiting on the rate limiter.
func (e *Enricher) EnrichAll(ctx context.Context, doc *menu.Document) error {
	if strings.TrimSpace(doc.RestaurantName) == "" {
		e.logger.Warn("no restaurant name, skipping restaurant image")
		doc.RestaurantImage = ""
	} else {
		query := strings.TrimSpace(fmt.Sprintf("%s restaurant %s", doc.RestaurantName, doc.Location))
		links := search(ctx, e.searcher, query, e.imagesPerItem, e.logger)
		if len(links) > 0 {
			doc.RestaurantImage = links[0]
		} else {
			doc.RestaurantImage = ""
		}
	}

	for ci := range doc.Categories {
		for ii := range doc.Categories[ci].Items {
			if err := e.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("wait for search quota: %w", err)
			}
			item := &doc.Categories[ci].Items[ii]
			item.Images = search(ctx, e.searcher, itemQuery(item, doc.RestaurantName), e.imagesPerItem, e.logger)
		}
	}
	return nil
}

// EnrichItem returns a copy of the document with up to count images
// fetched for the single item matching slug. All other items are
// untouched. A count of zero or less falls back to the enricher's
// per-item default.
func (e *Enricher) EnrichItem(ctx context.Context, doc menu.Document, slug string, count int) (menu.Document, error) {
	if count <= 0 {
		count = e.imagesPerItem
	}
	out := doc.Clone()
	ci, ii, ok := out.FindBySlug(slug)
	if !ok {
		return menu.Document{}, fmt.Errorf("%w: %q", ErrItemNotFound, slug)
	}
	item := &out.Categories[ci].Items[ii]
	item.Images = search(ctx, e.searcher, itemQuery(item, out.RestaurantName), count, e.logger)
	return out, nil
}

// itemQuery mirrors the "name - description - restaurant" query shape,
// trimming the separators left by empty parts.
func itemQuery(item *menu.Item, restaurantName string) string {
	q := fmt.Sprintf("%s - %s - %s", item.Name, item.Description, restaurantName)
	return strings.Trim(q, " -")
}
