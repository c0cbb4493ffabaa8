// Package pipeline chains recognition, extraction, enrichment and
// persistence into the full menu ingestion flow.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/menu"
	"github.com/dishcovery/menu-pipeline/internal/notify"
	"github.com/dishcovery/menu-pipeline/internal/ocr"
)

// Extractor turns raw menu text into a structured document.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (menu.Document, error)
}

// Enricher fills in image URLs across a document.
type Enricher interface {
	EnrichAll(ctx context.Context, doc *menu.Document) error
}

// Persister writes a document to the catalog.
type Persister interface {
	Persist(ctx context.Context, doc *menu.Document) (uuid.UUID, error)
}

// Result reports what one ingestion produced.
type Result struct {
	RestaurantID uuid.UUID
	Document     menu.Document
	Persisted    bool
}

// Ingestor runs the full flow for one menu image.
type Ingestor struct {
	recognizer ocr.Recognizer
	extractor  Extractor
	enricher   Enricher
	persister  Persister
	publisher  notify.Publisher
	logger     *zap.Logger
}

// NewIngestor wires the stages together.
func NewIngestor(recognizer ocr.Recognizer, extractor Extractor, enricher Enricher, persister Persister, publisher notify.Publisher, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		recognizer: recognizer,
		extractor:  extractor,
		enricher:   enricher,
		persister:  persister,
		publisher:  publisher,
		logger:     logger,
	}
}

// IngestImage recognizes the image, extracts and enriches the menu, and
// persists it. A document the model could not name is returned
// unpersisted rather than failing, since the extraction itself is
// fail-soft. Publish failures are logged and do not fail the ingestion;
// the catalog write already succeeded.
func (i *Ingestor) IngestImage(ctx context.Context, imagePath string) (Result, error) {
	fragments, err := i.recognizer.Recognize(ctx, imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("recognize image: %w", err)
	}
	text := ocr.JoinText(fragments)
	if text == "" {
		return Result{}, fmt.Errorf("no text recognized in %s", imagePath)
	}
	i.logger.Info("image recognized",
		zap.String("image", imagePath),
		zap.Int("fragments", len(fragments)),
	)

	doc, err := i.extractor.Extract(ctx, text)
	if err != nil {
		return Result{}, err
	}
	if !doc.Persistable() {
		i.logger.Warn("extraction produced no restaurant name, skipping persistence",
			zap.String("image", imagePath),
		)
		return Result{Document: doc}, nil
	}

	if err := i.enricher.EnrichAll(ctx, &doc); err != nil {
		return Result{}, fmt.Errorf("enrich menu: %w", err)
	}

	id, err := i.persister.Persist(ctx, &doc)
	if err != nil {
		return Result{}, fmt.Errorf("persist menu: %w", err)
	}

	event := notify.Event{
		RestaurantID:   id.String(),
		RestaurantName: doc.RestaurantName,
		Categories:     len(doc.Categories),
		Items:          countItems(&doc),
		CompletedAt:    time.Now().UTC(),
	}
	if _, err := i.publisher.PublishCompletion(ctx, event); err != nil {
		i.logger.Warn("publish completion event failed",
			zap.String("restaurant", doc.RestaurantName),
			zap.Error(err),
		)
	}

	return Result{RestaurantID: id, Document: doc, Persisted: true}, nil
}

func countItems(doc *menu.Document) int {
	total := 0
	for _, cat := range doc.Categories {
		total += len(cat.Items)
	}
	return total
}
