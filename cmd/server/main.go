package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"weather-now/internal/config"
	"weather-now/internal/logging"
	"weather-now/internal/router"
	"weather-now/internal/server"
	"weather-now/internal/weather"
	"weather-now/internal/web"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("load .env", "err", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	client := weather.NewClient(cfg.GeocodingURL, cfg.ForecastURL, logger.WithPrefix("upstream"))
	service := weather.NewService(client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.SSH.Enabled {
		chain := router.DefaultChain(router.ChainOptions{
			MaxSessions: cfg.SSH.MaxSessions,
			Logger:      logger,
			Lookup:      service,
			DefaultCity: cfg.DefaultCity,
		})
		runtime, err := server.New(cfg.SSH, chain, logger)
		if err != nil {
			logger.Fatal("build ssh server", "err", err)
		}
		g.Go(func() error { return runtime.Run(ctx) })
	}

	if cfg.HTTP.Enabled {
		app := web.New(service, web.Options{
			DefaultCity: cfg.DefaultCity,
			Logger:      logger,
			AccessLog:   os.Stderr,
		})
		g.Go(func() error { return web.Run(ctx, app, cfg.HTTP.Addr(), logger) })
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
	logger.Info("shutdown complete", "event", "shutdown")
}
