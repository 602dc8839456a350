package app

import (
	"context"
	"fmt"

	"stocklens/internal/config"
	"stocklens/internal/logger"
	httpapi "stocklens/internal/transport/http"

	"golang.org/x/sync/errgroup"
)

// App owns the built service graph and its lifecycle.
type App struct {
	loader *config.Loader
	server *httpapi.Server
}

// NewApp builds the application from a loaded configuration without
// starting it.
func NewApp(loader *config.Loader) (*App, error) {
	if loader == nil {
		return nil, fmt.Errorf("nil config loader")
	}
	return buildAppWithWire(context.Background(), loader)
}

// Run serves HTTP until ctx is cancelled. Config file changes are applied
// live: the log level follows the file, demo mode flips without restart.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}

	a.loader.Watch(func(cfg *config.Config) {
		logger.SetLevel(cfg.App.LogLevel)
	})

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("http server listening on %s", a.server.Addr())
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Server exposes the HTTP server (for testing harnesses).
func (a *App) Server() *httpapi.Server {
	if a == nil {
		return nil
	}
	return a.server
}
