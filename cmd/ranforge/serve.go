package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/RANForge/ranforge/internal/adapter/claudecli"
	"github.com/RANForge/ranforge/internal/adapter/fsstate"
	rfhttp "github.com/RANForge/ranforge/internal/adapter/http"
	rfnats "github.com/RANForge/ranforge/internal/adapter/nats"
	"github.com/RANForge/ranforge/internal/adapter/otel"
	"github.com/RANForge/ranforge/internal/adapter/postgres"
	"github.com/RANForge/ranforge/internal/adapter/ristretto"
	"github.com/RANForge/ranforge/internal/adapter/ws"
	"github.com/RANForge/ranforge/internal/config"
	"github.com/RANForge/ranforge/internal/resilience"
	"github.com/RANForge/ranforge/internal/runpool"
	"github.com/RANForge/ranforge/internal/service"
)

// runServe starts the inspection API with the WebSocket event feed.
func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := otel.InitTracer(ctx, cfg.Logging.Service, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	store, err := fsstate.New(cfg.State.Dir)
	if err != nil {
		return err
	}

	cache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	hub := ws.NewHub()
	opts := []service.Option{
		service.WithBroadcaster(hub),
		service.WithRunLog(cfg.Logging, func(workflowID string) (io.WriteCloser, error) {
			return store.LogWriter(workflowID)
		}),
	}

	if cfg.NATS.URL != "" {
		bus, err := rfnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = bus.Drain() }()
		opts = append(opts, service.WithEventBus(bus))
	}

	if cfg.Postgres.DSN != "" {
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		opts = append(opts, service.WithArchive(postgres.NewArchive(pool)))
	}

	exec := resilience.GuardExecutor(
		claudecli.New(cfg.Executor.Binary),
		resilience.NewBreaker(5, 30*time.Second),
	)

	workflows := service.NewWorkflowService(cfg.Workflows.Dir, cache)
	orch := service.NewOrchestrator(workflows, store, exec, opts...)
	pool := runpool.New(cfg.Server.MaxConcurrentRuns)
	handlers := rfhttp.NewHandlers(workflows, orch, service.NewHandoffService(), store, pool)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	rfhttp.MountRoutes(r, handlers, hub, cfg.Server.CORSOrigin)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
