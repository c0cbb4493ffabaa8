package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dishcovery/menu-pipeline/internal/catalog"
	"github.com/dishcovery/menu-pipeline/internal/config"
	"github.com/dishcovery/menu-pipeline/internal/enrich"
	"github.com/dishcovery/menu-pipeline/internal/extract"
	"github.com/dishcovery/menu-pipeline/internal/notify"
	"github.com/dishcovery/menu-pipeline/internal/ocr"
	"github.com/dishcovery/menu-pipeline/internal/pipeline"
)

// newIngestCmd creates the 'ingest' subcommand, which runs the full
// flow for one menu image: recognition, extraction, enrichment and
// catalog persistence.
func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <image-path>",
		Short: "Ingests a menu image into the catalog",
		Long: `Recognizes the menu image with tesseract, extracts a structured menu
with the generative model, enriches it with image search results, and
persists the restaurant with its full menu. Re-ingesting a restaurant
that is already cataloged is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()

			store, storeCleanup, err := buildStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer storeCleanup()

			gemini, err := extract.NewGemini(ctx, cfg.Extract.APIKey, cfg.Extract.Model, cfg.Extract.Temperature, logger)
			if err != nil {
				return fmt.Errorf("init gemini: %w", err)
			}
			extractor := extract.New(gemini, store, cfg.Extract.AuditPrefix, logger)

			searcher := enrich.NewCSESearcher(
				&http.Client{Timeout: time.Duration(cfg.Enrich.RequestTimeoutSec) * time.Second},
				cfg.Enrich.APIKey,
				cfg.Enrich.SearchEngineID,
				cfg.Enrich.ExcludedDomains,
				logger,
			)
			enricher := enrich.New(searcher, rate.Limit(cfg.Enrich.QueriesPerSecond), cfg.Enrich.ImagesPerItem, logger)

			pg, err := catalog.NewPostgres(ctx, catalog.PostgresConfig{
				DSN:      cfg.Catalog.DSN,
				MaxConns: cfg.Catalog.MaxConns,
			}, logger)
			if err != nil {
				return fmt.Errorf("init catalog: %w", err)
			}
			defer pg.Close()

			publisher, pubCleanup, err := buildPublisher(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pubCleanup()

			recognizer := ocr.NewTesseract(cfg.OCR.Binary, cfg.OCR.Languages, logger)
			ingestor := pipeline.NewIngestor(
				recognizer,
				extractor,
				enricher,
				catalog.NewWriter(pg, logger),
				publisher,
				logger,
			)

			result, err := ingestor.IngestImage(ctx, args[0])
			if err != nil {
				return err
			}
			if !result.Persisted {
				logger.Warn("menu extracted but not persisted", zap.String("image", args[0]))
				return nil
			}
			logger.Info("menu ingested",
				zap.String("restaurant", result.Document.RestaurantName),
				zap.String("id", result.RestaurantID.String()),
			)
			return nil
		},
	}
	return cmd
}

func buildPublisher(ctx context.Context, cfg config.Config, logger *zap.Logger) (notify.Publisher, func(), error) {
	if !cfg.Events.Enabled {
		return &notify.NoOpPublisher{}, func() {}, nil
	}
	ps, err := notify.NewPubSub(ctx, cfg.Events.ProjectID, cfg.Events.Topic, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init pubsub: %w", err)
	}
	cleanup := func() {
		if cerr := ps.Close(); cerr != nil {
			logger.Warn("close pubsub publisher", zap.Error(cerr))
		}
	}
	return ps, cleanup, nil
}
