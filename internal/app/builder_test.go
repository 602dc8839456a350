package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stocklens/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("FINNHUB_KEY", "")
	t.Setenv("DEMO_MODE", "true")
	loader, err := config.Load("")
	require.NoError(t, err)

	a, err := NewAppBuilder(loader).Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a.Server())
	return a
}

func TestBuildWiresTheFullGraph(t *testing.T) {
	a := buildTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stocks/watchlist", nil)
	a.Server().Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["symbols"])
}

func TestBuildDemoModeServesSyntheticQuote(t *testing.T) {
	a := buildTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stocks/quote?symbol=AAPL", nil)
	a.Server().Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Contains(t, body, "c")
}

func TestBuildWithoutKeyOrDemoRejectsQuote(t *testing.T) {
	t.Setenv("FINNHUB_KEY", "")
	t.Setenv("DEMO_MODE", "false")
	loader, err := config.Load("")
	require.NoError(t, err)

	a, err := NewAppBuilder(loader).Build(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stocks/quote?symbol=AAPL", nil)
	a.Server().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildNilLoaderFails(t *testing.T) {
	_, err := NewAppBuilder(nil).Build(context.Background())
	assert.Error(t, err)
}

func TestNewAppNilLoaderFails(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)
}
