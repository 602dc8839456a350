package app

import (
	"context"
	"fmt"
	"time"

	"stocklens/internal/cache"
	"stocklens/internal/config"
	"stocklens/internal/logger"
	"stocklens/internal/marketclock"
	"stocklens/internal/news"
	"stocklens/internal/pkg/circuit"
	"stocklens/internal/provider/finnhub"
	"stocklens/internal/provider/yahoo"
	"stocklens/internal/rank"
	"stocklens/internal/ratelimit"
	"stocklens/internal/stocks"
	httpapi "stocklens/internal/transport/http"
)

// AppBuilder assembles the full dependency graph from a config loader.
// Option hooks let tests swap the pieces that reach the network.
type AppBuilder struct {
	loader *config.Loader

	watchlistFn func(string) ([]string, error)
	serverFn    func(httpapi.ServerConfig) (*httpapi.Server, error)
	community   rank.CommunityScorer
}

type AppBuilderOption func(*AppBuilder)

func NewAppBuilder(loader *config.Loader, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		loader:      loader,
		watchlistFn: config.LoadWatchlist,
		serverFn:    httpapi.NewServer,
		community:   rank.NeutralCommunity{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.loader == nil {
		return nil, fmt.Errorf("nil config loader")
	}
	cfg := b.loader.Config()
	logger.SetLevel(cfg.App.LogLevel)

	watchlist, err := b.watchlistFn(cfg.Watchlist.Path)
	if err != nil {
		return nil, fmt.Errorf("loading watchlist failed: %w", err)
	}
	logger.Infof("watchlist loaded: %d symbols", len(watchlist))

	limiter := ratelimit.New(cfg.Finnhub.MinGap())
	primary := finnhub.New(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL, limiter)
	secondary := yahoo.New(cfg.Yahoo.BaseURL)
	breaker := circuit.New("finnhub",
		cfg.Breaker.Threshold,
		time.Duration(cfg.Breaker.CooloffSeconds)*time.Second)

	resolver := stocks.NewResolver(
		cache.New(),
		primary,
		secondary,
		marketclock.New(),
		breaker,
		cfg.Candles,
		b.loader.DemoMode,
	)
	stockSvc := stocks.NewService(primary, b.loader.DemoMode)

	// The profile lookup only sharpens news queries; without a key it would
	// just burn a request per fetch.
	var profiles news.ProfileSource
	if primary.Configured() {
		profiles = primary
	}
	newsSvc := news.NewService(cfg.News.APIKey, cfg.News.BaseURL, profiles)

	rankSvc := rank.NewService(stockSvc, newsSvc, b.community)

	router := httpapi.NewRouter(resolver, stockSvc, newsSvc, rankSvc, watchlist)
	server, err := b.serverFn(httpapi.ServerConfig{Addr: cfg.App.HTTPAddr, API: router})
	if err != nil {
		return nil, fmt.Errorf("building http server failed: %w", err)
	}

	if !primary.Configured() {
		if b.loader.DemoMode() {
			logger.Warnf("FINNHUB_KEY missing, serving synthetic data in demo mode")
		} else {
			logger.Warnf("FINNHUB_KEY missing and demo mode off, candles depend on the fallback provider")
		}
	}

	return &App{loader: b.loader, server: server}, nil
}

type appBuilderDeps interface {
	Build(context.Context) (*App, error)
}

func provideAppFromBuilder(b appBuilderDeps, ctx context.Context) (*App, error) {
	return b.Build(ctx)
}

func provideAppBuilder(loader *config.Loader) *AppBuilder {
	return NewAppBuilder(loader)
}

func WithWatchlistLoader(fn func(string) ([]string, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.watchlistFn = fn
		}
	}
}

func WithServer(fn func(httpapi.ServerConfig) (*httpapi.Server, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.serverFn = fn
		}
	}
}

func WithCommunityScorer(scorer rank.CommunityScorer) AppBuilderOption {
	return func(b *AppBuilder) {
		if scorer != nil {
			b.community = scorer
		}
	}
}
