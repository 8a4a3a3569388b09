package cmd

import (
	"context"

	"github.com/templui/macrotrack/internal/app"
	"github.com/templui/macrotrack/internal/config"
	"github.com/templui/macrotrack/internal/logger"
)

// loadApp reads the environment the same way the server does.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Environment: cfg.AppEnv,
	})
	return app.New(ctx, cfg)
}
