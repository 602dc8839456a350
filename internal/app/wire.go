//go:build wireinject

package app

import (
	"context"

	"stocklens/internal/config"

	"github.com/google/wire"
)

func buildAppWithWire(ctx context.Context, loader *config.Loader) (*App, error) {
	wire.Build(
		provideAppBuilder,
		wire.Bind(new(appBuilderDeps), new(*AppBuilder)),
		provideAppFromBuilder,
	)
	return nil, nil
}
