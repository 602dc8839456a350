package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	loader, err := Load("")
	require.NoError(t, err)
	cfg := loader.Config()

	assert.Equal(t, ":5001", cfg.App.HTTPAddr)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "https://finnhub.io/api/v1", cfg.Finnhub.BaseURL)
	assert.Equal(t, 0.40, cfg.Finnhub.MinGapSeconds)
	assert.Equal(t, 1800, cfg.Candles.Intraday)
	assert.Equal(t, 0, cfg.Candles.Daily)
	assert.Equal(t, 5, cfg.Breaker.Threshold)
	assert.Equal(t, 60, cfg.Breaker.CooloffSeconds)
	assert.False(t, cfg.DemoMode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_KEY", "env-key")
	t.Setenv("FINN_MIN_GAP", "1.5")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("CANDLE_60_TTL", "600")
	t.Setenv("CANDLE_D_TTL", "7200")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("LOG_LEVEL", "debug")

	loader, err := Load("")
	require.NoError(t, err)
	cfg := loader.Config()

	assert.Equal(t, "env-key", cfg.Finnhub.APIKey)
	assert.Equal(t, 1.5, cfg.Finnhub.MinGapSeconds)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, 600, cfg.Candles.Intraday)
	assert.Equal(t, 7200, cfg.Candles.Daily)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoadLegacyKeyAlias(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "alias-key")
	loader, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "alias-key", loader.Config().Finnhub.APIKey)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  log_level: warn
  http_addr: ":9000"
finnhub:
  min_gap_seconds: 0.25
demo_mode: true
`), 0o644))

	loader, err := Load(path)
	require.NoError(t, err)
	cfg := loader.Config()
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, ":9000", cfg.App.HTTPAddr)
	assert.Equal(t, 0.25, cfg.Finnhub.MinGapSeconds)
	assert.True(t, loader.DemoMode())
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsNegativeGap(t *testing.T) {
	t.Setenv("FINN_MIN_GAP", "-0.1")
	_, err := Load("")
	assert.ErrorContains(t, err, "min_gap_seconds")
}

func TestValidateRejectsNegativeTTL(t *testing.T) {
	t.Setenv("CANDLE_W_TTL", "-5")
	_, err := Load("")
	assert.ErrorContains(t, err, "TTL")
}

func TestMinGapDuration(t *testing.T) {
	f := FinnhubConfig{MinGapSeconds: 0.40}
	assert.Equal(t, 400*time.Millisecond, f.MinGap())
}
