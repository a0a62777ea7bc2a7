package main

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth/config"
	"github.com/goliatone/go-heroes-auth/obs"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	return obs.NewLogger(obs.LogConfig{
		Level:  level,
		Pretty: cfg.Debug,
		App:    cfg.ProjectName,
		Ver:    cfg.Version,
	})
}
