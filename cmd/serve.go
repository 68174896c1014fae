package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/sectorscore/internal/adapters/http/api"
	"github.com/okian/sectorscore/internal/adapters/repository"
	service "github.com/okian/sectorscore/internal/app"
	"github.com/okian/sectorscore/internal/config"
	"github.com/okian/sectorscore/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP admin API and the recompute workers (default)",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
}

// newService builds the scoring service from configuration.
func newService(cfg *config.Config, store repository.Store) (*service.Service, error) {
	policy, err := service.ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithLogger(logger.Get()),
		service.WithStore(store),
		service.WithCollections(cfg.Collections),
		service.WithWriteConcurrency(cfg.WriteConcurrency),
		service.WithDuplicatePolicy(policy),
		service.WithQueueSize(cfg.QueueSize),
		service.WithWorkerCount(cfg.RecomputeWorkers),
		service.WithRecomputeInterval(cfg.RecomputeInterval),
	), nil
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.Get()

	be, err := openBackend(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.close(); err != nil {
			log.Warn(ctx, "store close failed", logger.Error(err))
		}
	}()

	svc, err := newService(c.cfg, be.store)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(mux)

	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", c.cfg.Addr), logger.String("store", c.cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}
