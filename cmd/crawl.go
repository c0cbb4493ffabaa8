package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/sitecrawl"
)

// newCrawlCmd creates the 'crawl' subcommand, which walks a restaurant
// site and archives the raw HTML of its leaf pages to the configured
// blob store.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <start-url>",
		Short: "Crawls a restaurant site and archives its leaf pages",
		Long: `Walks same-domain links depth-first from the start URL up to the
configured depth, saving pages that link to nothing unvisited. Fetch
failures abandon the failing branch without stopping the crawl.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			fetcher, fetchCleanup, err := buildFetcher(cfg, logger)
			if err != nil {
				return err
			}
			defer fetchCleanup()

			store, storeCleanup, err := buildStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer storeCleanup()

			crawler := sitecrawl.New(fetcher, store, cfg.Crawl.SavePrefix, cfg.Crawl.MaxDepth, logger)
			if err := crawler.Crawl(cmd.Context(), args[0]); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("run crawl: %w", err)
			}

			logger.Info("crawl finished", zap.String("start_url", args[0]))
			return nil
		},
	}
	return cmd
}
