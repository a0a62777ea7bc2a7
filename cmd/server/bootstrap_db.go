package main

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth/config"
	"github.com/goliatone/go-heroes-auth/persistence"
)

func initDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*bun.DB, error) {
	db, err := persistence.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, persistence.WithDebug(cfg.Debug))
	if err != nil {
		return nil, err
	}

	if err := persistence.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("db ready", zap.String("driver", cfg.Database.Driver))
	return db, nil
}
