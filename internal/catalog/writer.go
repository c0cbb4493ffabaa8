package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/menu"
	"github.com/dishcovery/menu-pipeline/internal/metrics"
)

// ErrNotPersistable reports a document without a restaurant name.
var ErrNotPersistable = errors.New("document has no restaurant name")

// Writer persists documents idempotently: a restaurant name that is
// already cataloged is left untouched, and a new one is written with
// its full menu or not at all.
type Writer struct {
	store  Store
	logger *zap.Logger
}

// NewWriter builds a Writer on top of a Store.
func NewWriter(store Store, logger *zap.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Persist writes the document to the catalog and returns the
// restaurant's id. Re-submitting a name that already exists is a no-op
// returning the existing id, including when the duplicate is created by
// a concurrent writer mid-flight.
func (w *Writer) Persist(ctx context.Context, doc *menu.Document) (uuid.UUID, error) {
	if !doc.Persistable() {
		return uuid.Nil, ErrNotPersistable
	}

	if id, found, err := w.store.RestaurantIDByName(ctx, doc.RestaurantName); err != nil {
		return uuid.Nil, fmt.Errorf("look up restaurant: %w", err)
	} else if found {
		w.logger.Info("restaurant already cataloged, skipping",
			zap.String("restaurant", doc.RestaurantName),
			zap.String("id", id.String()),
		)
		return id, nil
	}

	restaurant, categories, items := buildRecords(doc)
	if err := w.store.InsertMenu(ctx, restaurant, categories, items); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Lost the race to another writer; their row wins.
			id, found, lookupErr := w.store.RestaurantIDByName(ctx, doc.RestaurantName)
			if lookupErr != nil {
				return uuid.Nil, fmt.Errorf("look up restaurant after conflict: %w", lookupErr)
			}
			if !found {
				return uuid.Nil, fmt.Errorf("restaurant vanished after conflict: %w", err)
			}
			w.logger.Info("restaurant cataloged concurrently, adopting existing row",
				zap.String("restaurant", doc.RestaurantName),
				zap.String("id", id.String()),
			)
			return id, nil
		}
		return uuid.Nil, fmt.Errorf("insert menu: %w", err)
	}

	metrics.RestaurantPersisted()
	w.logger.Info("restaurant cataloged",
		zap.String("restaurant", restaurant.Name),
		zap.String("id", restaurant.ID.String()),
		zap.Int("categories", len(categories)),
		zap.Int("items", len(items)),
	)
	return restaurant.ID, nil
}

// buildRecords flattens a document into insertable rows, minting uuids
// for every row.
func buildRecords(doc *menu.Document) (RestaurantRecord, []CategoryRecord, []ItemRecord) {
	restaurant := RestaurantRecord{
		ID:          uuid.New(),
		Name:        doc.RestaurantName,
		Location:    doc.Location,
		Description: doc.Description,
		Currency:    doc.Currency,
		LastUpdated: doc.LastUpdated,
		Image:       doc.RestaurantImage,
	}

	var categories []CategoryRecord
	var items []ItemRecord
	for _, cat := range doc.Categories {
		catRecord := CategoryRecord{
			ID:           uuid.New(),
			RestaurantID: restaurant.ID,
			Name:         cat.Name,
			Description:  cat.Description,
			Priority:     cat.Priority,
		}
		categories = append(categories, catRecord)
		for _, item := range cat.Items {
			items = append(items, ItemRecord{
				ID:          uuid.New(),
				CategoryID:  catRecord.ID,
				MenuID:      item.ID,
				Name:        item.Name,
				Slug:        item.Slug,
				Description: item.Description,
				Price:       item.Price,
				Tags:        item.Tags,
				ImagePrompt: item.ImagePrompt,
				Images:      item.Images,
			})
		}
	}
	return restaurant, categories, items
}
