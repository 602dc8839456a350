//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject

package app

import (
	"context"

	"stocklens/internal/config"
)

func buildAppWithWire(ctx context.Context, loader *config.Loader) (*App, error) {
	appBuilder := provideAppBuilder(loader)
	app, err := provideAppFromBuilder(appBuilder, ctx)
	if err != nil {
		return nil, err
	}
	return app, nil
}
