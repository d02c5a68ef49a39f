package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"dishtalgia-backend/internal/config"
	"dishtalgia-backend/internal/database"
	"dishtalgia-backend/internal/logger"
)

// bootstrap loads configuration, installs the logger and connects to Mongo.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *database.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Service: "dishtalgia-backend",
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})

	db, err := database.Connect(ctx, &cfg.Mongo)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("connected to MongoDB", slog.String("database", cfg.Mongo.Database))
	return cfg, log, db, nil
}
