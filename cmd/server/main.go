package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth/config"
	"github.com/goliatone/go-heroes-auth/persistence"
	"github.com/goliatone/go-heroes-auth/server"
)

func main() {
	configPath := flag.String("config", "", "optional YAML or JSON config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting heroes auth", zap.String("ver", cfg.Version), zap.String("db", cfg.Database.Driver))

	db, err := initDB(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	stack, err := initAuth(cfg, db, logger, reg)
	if err != nil {
		logger.Fatal("auth init", zap.Error(err))
	}

	if err := seedSuperuser(rootCtx, cfg, stack, logger); err != nil {
		logger.Fatal("seed superuser", zap.Error(err))
	}

	app := server.New(server.Options{
		Name:         cfg.ProjectName,
		Version:      cfg.Version,
		Description:  cfg.Description,
		Prefix:       cfg.APIV1Prefix,
		CORSOrigins:  cfg.CORSOrigins(),
		AllowedHosts: cfg.Hosts(),
		Ping: func(ctx context.Context) error {
			return persistence.CheckConnection(ctx, db)
		},
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:  logger.Named("http"),
	}, stack.controller)

	httpErrCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		httpErrCh <- app.Listen(cfg.HTTPAddr)
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case err := <-httpErrCh:
		if err != nil {
			logger.Error("http serve", zap.Error(err))
		}
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	logger.Info("bye")
}
