// Package extract turns raw menu text into a structured menu document
// using a generative model held to a strict JSON contract.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/menu"
	"github.com/dishcovery/menu-pipeline/internal/metrics"
	"github.com/dishcovery/menu-pipeline/internal/storage"
)

// TextGenerator produces model text for a system instruction and a user
// prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// Extractor runs the generative extraction and keeps audit snapshots of
// every attempt in blob storage.
type Extractor struct {
	gen         TextGenerator
	audit       storage.Provider
	auditPrefix string
	now         func() time.Time
	logger      *zap.Logger
}

// New builds an Extractor. audit may be a NoOpProvider when snapshots
// are not wanted.
func New(gen TextGenerator, audit storage.Provider, auditPrefix string, logger *zap.Logger) *Extractor {
	return &Extractor{
		gen:         gen,
		audit:       audit,
		auditPrefix: auditPrefix,
		now:         time.Now,
		logger:      logger,
	}
}

// Extract sends the raw text to the model and parses its response.
// Model output that cannot be repaired into JSON yields an empty,
// normalized document and a nil error; the raw response is kept as an
// audit snapshot so the failure can be inspected later. Only generator
// transport errors are returned.
func (e *Extractor) Extract(ctx context.Context, rawText string) (menu.Document, error) {
	prompt := "Here is the raw OCR text from a restaurant menu:\n\n" + strings.TrimSpace(rawText)

	response, err := e.gen.GenerateText(ctx, systemInstruction, prompt)
	if err != nil {
		metrics.Extraction("failed")
		return menu.Document{}, fmt.Errorf("generate extraction: %w", err)
	}

	attemptID := uuid.NewString()
	doc, ok := parseResponse(response)
	if !ok {
		metrics.Extraction("parse_failed")
		e.logger.Warn("model response is not parseable JSON, returning empty document",
			zap.String("attempt_id", attemptID),
			zap.Int("response_bytes", len(response)),
		)
		e.snapshot(ctx, attemptID+".raw.txt", []byte(response))
		empty := menu.Document{}
		empty.Normalize(e.now())
		return empty, nil
	}

	doc.Normalize(e.now())
	metrics.Extraction("parsed")
	e.logger.Info("menu extracted",
		zap.String("attempt_id", attemptID),
		zap.String("restaurant", doc.RestaurantName),
		zap.Int("categories", len(doc.Categories)),
	)

	if data, err := json.MarshalIndent(&doc, "", "  "); err == nil {
		e.snapshot(ctx, attemptID+".json", data)
	}
	return doc, nil
}

// parseResponse repairs prose-wrapped model output by slicing from the
// first '{' to the last '}' before unmarshalling.
func parseResponse(response string) (menu.Document, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end < start {
		return menu.Document{}, false
	}
	var wire wireDocument
	if err := json.Unmarshal([]byte(response[start:end+1]), &wire); err != nil {
		return menu.Document{}, false
	}
	return wire.toDocument(), true
}

func (e *Extractor) snapshot(ctx context.Context, name string, data []byte) {
	objectName := path.Join(e.auditPrefix, name)
	if err := e.audit.Save(ctx, objectName, data); err != nil {
		e.logger.Warn("save audit snapshot failed",
			zap.String("object", objectName),
			zap.Error(err),
		)
	}
}
