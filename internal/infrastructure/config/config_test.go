package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CATALOG_UPSTREAM_BASE_URL", "https://api.example.com/v1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog-explorer", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.Equal(t, "https://api.example.com/v1", cfg.Upstream.BaseURL)
	assert.Equal(t, 100, cfg.Upstream.PageSize)
	assert.Equal(t, 5, cfg.Upstream.PageBatchSize)
	assert.Equal(t, 5, cfg.Upstream.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.Upstream.RetryBaseDelay)
	assert.Equal(t, 30, cfg.Upstream.TimeoutSeconds)
	assert.Equal(t, 500*time.Millisecond, cfg.Reload.Debounce)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CATALOG_UPSTREAM_BASE_URL", "https://api.example.com/v1")
	t.Setenv("CATALOG_UPSTREAM_PAGE_SIZE", "50")
	t.Setenv("CATALOG_RELOAD_DEBOUNCE", "2s")
	t.Setenv("CATALOG_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Upstream.PageSize)
	assert.Equal(t, 2*time.Second, cfg.Reload.Debounce)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream.base_url")
}

func TestValidateProductionConstraints(t *testing.T) {
	t.Setenv("CATALOG_UPSTREAM_BASE_URL", "https://api.example.com/v1")
	t.Setenv("CATALOG_APP_ENV", "production")

	// Console logging is rejected in production.
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")

	t.Setenv("CATALOG_LOG_FORMAT", "json")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
}

func TestValidateRejectsWildcardCORSInProduction(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Log.Format = "json"
	cfg.Upstream.BaseURL = "https://api.example.com/v1"
	cfg.HTTP.CORSAllowOrigins = []string{"*"}

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors_allow_origins")
}
