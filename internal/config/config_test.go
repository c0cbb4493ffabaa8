package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "menu", cfg.Locator.Keyword)
	require.Equal(t, float64(60), cfg.Locator.MinScore)
	require.Equal(t, 2, cfg.Crawl.MaxDepth)
	require.Equal(t, "local", cfg.Storage.Provider)
	require.Equal(t, 6, cfg.Enrich.ImagesPerItem)
	require.Contains(t, cfg.Enrich.ExcludedDomains, "tiktok.com")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
crawl:
  max_depth: 4
locator:
  keyword: carte
storage:
  provider: noop
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Crawl.MaxDepth)
	require.Equal(t, "carte", cfg.Locator.Keyword)
	require.Equal(t, "noop", cfg.Storage.Provider)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.Locator.MinScore = 200
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Storage.Provider = "s3"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Crawl.MaxDepth = -1
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Events.Enabled = true
	require.Error(t, bad.Validate())
}
