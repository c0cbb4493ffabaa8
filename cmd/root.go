// Package cmd defines and implements the CLI commands for the menupipe
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/config"
	"github.com/dishcovery/menu-pipeline/internal/fetch"
	"github.com/dishcovery/menu-pipeline/internal/logging"
	"github.com/dishcovery/menu-pipeline/internal/metrics"
	"github.com/dishcovery/menu-pipeline/internal/storage"
	"github.com/dishcovery/menu-pipeline/internal/storage/gcs"
	"github.com/dishcovery/menu-pipeline/internal/storage/local"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menupipe",
		Short: "Acquires restaurant menus from the web into the dish catalog.",
		Long: `menupipe is the acquisition pipeline behind the dish catalog.
It locates menu pages on restaurant websites, crawls and archives them,
recognizes menu images, extracts structured menus with a generative
model, enriches them with images, and persists the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default uses built-in defaults and MENUPIPE_* env)")

	cmd.AddCommand(newLocateCmd())
	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newEnrichCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and registers metrics.
// Every subcommand starts here.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, err
	}
	metrics.Init()
	return cfg, logger, nil
}

// buildFetcher assembles the probe fetcher with retries and, when
// enabled, headless promotion for JavaScript-shell sites. The returned
// cleanup tears down the browser.
func buildFetcher(cfg config.Config, logger *zap.Logger) (fetch.Fetcher, func(), error) {
	fetchCfg := fetch.Config{
		UserAgent:      cfg.Fetch.UserAgent,
		RequestTimeout: cfg.FetchTimeout(),
		MaxRetries:     cfg.Fetch.MaxRetries,
		BackoffInitial: time.Duration(cfg.Fetch.BackoffInitialMs) * time.Millisecond,
		BackoffMax:     time.Duration(cfg.Fetch.BackoffMaxMs) * time.Millisecond,
	}
	probe, err := fetch.NewCollyFetcher(fetchCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init fetcher: %w", err)
	}
	retrying := fetch.NewRetryingFetcher(probe, fetch.NewExponentialRetryPolicy(fetchCfg), logger)

	if !cfg.Fetch.Headless.Enabled {
		return retrying, func() {}, nil
	}

	renderer, err := fetch.NewChromedpRenderer(fetch.HeadlessOptions{
		MaxParallel: cfg.Fetch.Headless.MaxParallel,
		NavTimeout:  time.Duration(cfg.Fetch.Headless.NavTimeoutSeconds) * time.Second,
		UserAgent:   cfg.Fetch.UserAgent,
	}, logger)
	switch {
	case err == nil:
		detector := fetch.NewHeuristicDetector(cfg.Fetch.Headless.MinHTMLBytes)
		promoting := fetch.NewPromotingFetcher(retrying, renderer, detector, logger)
		return promoting, renderer.Close, nil
	case errors.Is(err, fetch.ErrRendererDisabled):
		logger.Warn("headless rendering disabled despite feature flag; using probe fetcher only")
		return retrying, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("init renderer: %w", err)
	}
}

// buildStore selects the blob store provider from configuration.
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Provider, func(), error) {
	switch cfg.Storage.Provider {
	case "local":
		store, err := local.New(cfg.Storage.Local.BaseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init local storage: %w", err)
		}
		return store, func() {}, nil
	case "gcs":
		store, err := gcs.New(ctx, cfg.Storage.GCS.Bucket, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs storage: %w", err)
		}
		cleanup := func() {
			if cerr := store.Close(); cerr != nil {
				logger.Warn("close gcs store", zap.Error(cerr))
			}
		}
		return store, cleanup, nil
	case "noop":
		return &storage.NoOpProvider{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}
