package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/RANForge/ranforge/internal/adapter/claudecli"
	"github.com/RANForge/ranforge/internal/adapter/fsstate"
	rfnats "github.com/RANForge/ranforge/internal/adapter/nats"
	"github.com/RANForge/ranforge/internal/adapter/otel"
	"github.com/RANForge/ranforge/internal/adapter/postgres"
	"github.com/RANForge/ranforge/internal/config"
	"github.com/RANForge/ranforge/internal/domain/run"
	"github.com/RANForge/ranforge/internal/logger"
	"github.com/RANForge/ranforge/internal/service"
)

// runRun executes one workflow to a terminal state. Exit is nonzero
// when the run fails; dry runs always succeed.
func runRun(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "enumerate stages without invoking agents")
	verbose := fs.Bool("verbose", false, "log at debug level")
	runID := fs.String("run-id", "", "explicit run identifier (generated when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ranforge run <workflow> [--dry-run] [--verbose] [--run-id id]")
	}
	workflowName := fs.Arg(0)

	if *verbose {
		cfg.Logging.Level = "debug"
		slog.SetDefault(logger.New(cfg.Logging))
	}

	ctx := context.Background()

	shutdownTracer, err := otel.InitTracer(ctx, cfg.Logging.Service, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	store, err := fsstate.New(cfg.State.Dir)
	if err != nil {
		return err
	}

	opts := []service.Option{
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

	workflows := service.NewWorkflowService(cfg.Workflows.Dir, nil)
	orch := service.NewOrchestrator(workflows, store, claudecli.New(cfg.Executor.Binary), opts...)

	state, err := orch.Execute(ctx, service.RunRequest{
		Workflow: workflowName,
		RunID:    *runID,
		DryRun:   *dryRun,
	})
	if err != nil {
		return err
	}

	if !*dryRun && state.Status != run.StatusCompleted {
		return fmt.Errorf("workflow %s finished with status %s", state.WorkflowID, state.Status)
	}
	return nil
}
