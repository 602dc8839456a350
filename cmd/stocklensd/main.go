package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stocklens/internal/app"
	"stocklens/internal/config"
	"stocklens/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// An empty path means environment-only configuration.
	loader, err := config.Load(os.Getenv("STOCKLENS_CONFIG"))
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	cfg := loader.Config()
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (env=%s demo_mode=%v)", cfg.App.Env, cfg.DemoMode)

	a, err := app.NewApp(loader)
	if err != nil {
		log.Fatalf("initializing app failed: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
