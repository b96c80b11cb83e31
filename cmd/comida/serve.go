package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"comida/internal/cli"
	"comida/internal/config"
	apphttp "comida/internal/http"
	"comida/internal/kv"
	"comida/internal/log"
	"comida/internal/tracker"
)

// pinger is implemented by backends that can report their health.
type pinger interface {
	Ping(ctx context.Context) error
}

func serve(parent context.Context, cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext(parent)
	defer stop()

	logger.InfoContext(ctx, "Starting comida",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend,
		"port", cfg.Port)

	res, cleanup, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	session := tracker.Open(ctx, tracker.NewStore(res.Store, logger), time.Now(), logger)
	srv := apphttp.NewServer(":"+cfg.Port, session, apphttp.Options{
		Logger:       logger,
		WeekCacheTTL: cfg.WeekCacheTTL,
		Ready:        readiness(res.Store),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped", "requests_served", srv.Metrics().TotalRequests)
	return nil
}

func readiness(store kv.Store) func(context.Context) error {
	if p, ok := store.(pinger); ok {
		return p.Ping
	}
	return nil
}
