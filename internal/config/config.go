// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Locator LocatorConfig `mapstructure:"locator"`
	Storage StorageConfig `mapstructure:"storage"`
	OCR     OCRConfig     `mapstructure:"ocr"`
	Extract ExtractConfig `mapstructure:"extract"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Events  EventsConfig  `mapstructure:"events"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// FetchConfig controls the HTTP probe fetcher and retry behavior.
type FetchConfig struct {
	UserAgent        string         `mapstructure:"user_agent"`
	TimeoutSeconds   int            `mapstructure:"timeout_seconds"`
	MaxRetries       int            `mapstructure:"max_retries"`
	BackoffInitialMs int            `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int            `mapstructure:"backoff_max_ms"`
	Headless         HeadlessConfig `mapstructure:"headless"`
}

// HeadlessConfig configures the chromedp rendering fallback for sites
// that serve a JavaScript shell instead of markup.
type HeadlessConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	MaxParallel       int  `mapstructure:"max_parallel"`
	NavTimeoutSeconds int  `mapstructure:"nav_timeout_seconds"`
	MinHTMLBytes      int  `mapstructure:"min_html_bytes"`
}

// CrawlConfig governs site traversal.
type CrawlConfig struct {
	MaxDepth   int    `mapstructure:"max_depth"`
	SavePrefix string `mapstructure:"save_prefix"`
}

// LocatorConfig governs menu-page discovery.
type LocatorConfig struct {
	Keyword  string  `mapstructure:"keyword"`
	MinScore float64 `mapstructure:"min_score"`
}

// StorageConfig selects and configures the blob store for raw pages and
// audit snapshots.
type StorageConfig struct {
	Provider string             `mapstructure:"provider"`
	Local    LocalStorageConfig `mapstructure:"local"`
	GCS      GCSStorageConfig   `mapstructure:"gcs"`
}

// LocalStorageConfig sets the filesystem store root.
type LocalStorageConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// GCSStorageConfig names the GCS bucket for blob persistence.
type GCSStorageConfig struct {
	Bucket string `mapstructure:"bucket"`
}

// OCRConfig configures the tesseract-backed text recognizer.
type OCRConfig struct {
	Binary    string `mapstructure:"binary"`
	Languages string `mapstructure:"languages"`
}

// ExtractConfig configures the generative extraction stage.
type ExtractConfig struct {
	Model          string  `mapstructure:"model"`
	APIKey         string  `mapstructure:"api_key"`
	Temperature    float32 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	AuditPrefix    string  `mapstructure:"audit_prefix"`
}

// EnrichConfig configures image search and enrichment pacing.
type EnrichConfig struct {
	APIKey            string   `mapstructure:"api_key"`
	SearchEngineID    string   `mapstructure:"search_engine_id"`
	ImagesPerItem     int      `mapstructure:"images_per_item"`
	QueriesPerSecond  float64  `mapstructure:"queries_per_second"`
	ExcludedDomains   []string `mapstructure:"excluded_domains"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_seconds"`
}

// CatalogConfig controls access to the relational catalog store.
type CatalogConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// EventsConfig holds metadata for publish-subscribe notifications.
type EventsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MENUPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("fetch.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.backoff_initial_ms", 250)
	v.SetDefault("fetch.backoff_max_ms", 2000)
	v.SetDefault("fetch.headless.enabled", false)
	v.SetDefault("fetch.headless.max_parallel", 1)
	v.SetDefault("fetch.headless.nav_timeout_seconds", 25)
	v.SetDefault("fetch.headless.min_html_bytes", 2048)
	v.SetDefault("crawl.max_depth", 2)
	v.SetDefault("crawl.save_prefix", "saved_menus")
	v.SetDefault("locator.keyword", "menu")
	v.SetDefault("locator.min_score", 60)
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local.base_dir", "data")
	v.SetDefault("ocr.binary", "tesseract")
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("extract.model", "gemini-2.0-flash-lite")
	v.SetDefault("extract.temperature", 0.1)
	v.SetDefault("extract.timeout_seconds", 60)
	v.SetDefault("extract.audit_prefix", "audit")
	v.SetDefault("enrich.images_per_item", 6)
	v.SetDefault("enrich.queries_per_second", 1)
	v.SetDefault("enrich.request_timeout_seconds", 10)
	v.SetDefault("enrich.excluded_domains", []string{
		"lookaside.fbsbx.com",
		"lookaside.instagram.com",
		"tiktok.com",
	})
	v.SetDefault("catalog.max_conns", 4)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Crawl.MaxDepth < 0 {
		return fmt.Errorf("crawl.max_depth must be >= 0")
	}
	if c.Locator.Keyword == "" {
		return fmt.Errorf("locator.keyword must be set")
	}
	if c.Locator.MinScore < 0 || c.Locator.MinScore > 100 {
		return fmt.Errorf("locator.min_score must be within [0, 100]")
	}
	switch c.Storage.Provider {
	case "local", "gcs", "noop":
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}
	if c.Storage.Provider == "gcs" && c.Storage.GCS.Bucket == "" {
		return fmt.Errorf("storage.gcs.bucket must be set when provider is gcs")
	}
	if c.Fetch.Headless.Enabled && c.Fetch.Headless.MaxParallel <= 0 {
		return fmt.Errorf("fetch.headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Enrich.ImagesPerItem <= 0 {
		return fmt.Errorf("enrich.images_per_item must be > 0")
	}
	if c.Events.Enabled && (c.Events.ProjectID == "" || c.Events.Topic == "") {
		return fmt.Errorf("events.project_id and events.topic must be set when events are enabled")
	}
	return nil
}

// FetchTimeout converts the configured fetch timeout to a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
