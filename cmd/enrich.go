package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/dishcovery/menu-pipeline/internal/enrich"
	"github.com/dishcovery/menu-pipeline/internal/menu"
)

// newEnrichCmd creates the 'enrich' subcommand, which re-runs image
// search for a single dish in a saved menu document.
func newEnrichCmd() *cobra.Command {
	var (
		outFile string
		count   int
	)

	cmd := &cobra.Command{
		Use:   "enrich <menu-json> <item-slug>",
		Short: "Fetches images for one dish in a saved menu document",
		Long: `Loads a menu document from a JSON file, runs an image search for the
item matching the slug, and writes the updated document back. All other
items are left untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read menu document: %w", err)
			}
			var doc menu.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse menu document: %w", err)
			}

			searcher := enrich.NewCSESearcher(
				&http.Client{Timeout: time.Duration(cfg.Enrich.RequestTimeoutSec) * time.Second},
				cfg.Enrich.APIKey,
				cfg.Enrich.SearchEngineID,
				cfg.Enrich.ExcludedDomains,
				logger,
			)
			enricher := enrich.New(searcher, rate.Limit(cfg.Enrich.QueriesPerSecond), cfg.Enrich.ImagesPerItem, logger)

			enriched, err := enricher.EnrichItem(cmd.Context(), doc, args[1], count)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(&enriched, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal menu document: %w", err)
			}
			target := args[0]
			if outFile != "" {
				target = outFile
			}
			if err := os.WriteFile(target, out, 0o600); err != nil {
				return fmt.Errorf("write menu document: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the enriched document to this file instead of overwriting the input")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of images to fetch for the item")
	return cmd
}
