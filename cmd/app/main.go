// Command app serves the adventure admin dashboard API.
//
//	@title			Adventure Admin API
//	@version		1.0
//	@description	Admin backend for quests, adventures, categories, achievements, events and store items.
//	@BasePath		/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/AdventureAdmin_Go/internal/bootstrap"
	"github.com/osse101/AdventureAdmin_Go/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bootstrap.SetupLogger(cfg, os.Stdout)

	warnings, err := config.ValidateEnvWithWarnings(cfg)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(bootstrap.LogMsgConfigurationWarning, "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, app)
		return nil
	})

	return g.Wait()
}
