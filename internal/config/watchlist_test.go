package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWatchlistDefault(t *testing.T) {
	symbols, err := LoadWatchlist("")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}, symbols)
}

func TestLoadWatchlistFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
symbols:
  - aapl
  - " msft "
  - AAPL
  - ""
  - nvda
`), 0o644))

	symbols, err := LoadWatchlist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, symbols)
}

func TestLoadWatchlistEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: []\n"), 0o644))

	_, err := LoadWatchlist(path)
	assert.ErrorContains(t, err, "no symbols")
}

func TestLoadWatchlistMissingFileFails(t *testing.T) {
	_, err := LoadWatchlist(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWatchlistBadYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: {not a list"), 0o644))

	_, err := LoadWatchlist(path)
	assert.Error(t, err)
}
