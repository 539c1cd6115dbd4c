package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/RANForge/ranforge/internal/adapter/otel"
	"github.com/RANForge/ranforge/internal/config"
	"github.com/RANForge/ranforge/internal/domain/handoff"
	"github.com/RANForge/ranforge/internal/domain/output"
	"github.com/RANForge/ranforge/internal/domain/run"
	"github.com/RANForge/ranforge/internal/domain/workflow"
	"github.com/RANForge/ranforge/internal/logger"
	"github.com/RANForge/ranforge/internal/port/archive"
	"github.com/RANForge/ranforge/internal/port/broadcast"
	"github.com/RANForge/ranforge/internal/port/eventbus"
	"github.com/RANForge/ranforge/internal/port/executor"
	"github.com/RANForge/ranforge/internal/port/statestore"
)

// RunRequest describes one workflow run.
type RunRequest struct {
	// Workflow is the definition name to resolve and execute.
	Workflow string

	// RunID overrides the generated run identifier when non-empty.
	RunID string

	// DryRun enumerates the stages without invoking any agent. Only the
	// initial state is persisted.
	DryRun bool
}

// Orchestrator drives workflow runs: strictly sequential stage
// execution with per-stage timeouts, output parsing, state persistence
// after every mutation, and critical-failure halting.
type Orchestrator struct {
	workflows *WorkflowService
	store     statestore.Store
	exec      executor.Executor
	validator *handoff.Validator
	bus       eventbus.Bus
	hub       broadcast.Broadcaster
	archive   archive.Store
	logCfg    config.Logging
	openLog   func(workflowID string) (io.WriteCloser, error)
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithEventBus publishes run and stage lifecycle events to bus.
func WithEventBus(bus eventbus.Bus) Option {
	return func(o *Orchestrator) { o.bus = bus }
}

// WithBroadcaster mirrors lifecycle events to connected WebSocket clients.
func WithBroadcaster(hub broadcast.Broadcaster) Option {
	return func(o *Orchestrator) { o.hub = hub }
}

// WithArchive archives terminal run snapshots to the durable store.
func WithArchive(st archive.Store) Option {
	return func(o *Orchestrator) { o.archive = st }
}

// WithHandoffValidator overrides the built-in advisory hand-off policy.
func WithHandoffValidator(v *handoff.Validator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

// WithRunLog tees run logging into a per-run sink opened by open.
func WithRunLog(cfg config.Logging, open func(workflowID string) (io.WriteCloser, error)) Option {
	return func(o *Orchestrator) {
		o.logCfg = cfg
		o.openLog = open
	}
}

// NewOrchestrator creates an orchestrator. Event bus, broadcaster, and
// archive are optional; the built-in handoff table is the default
// advisory policy.
func NewOrchestrator(workflows *WorkflowService, store statestore.Store, exec executor.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		workflows: workflows,
		store:     store,
		exec:      exec,
		validator: handoff.BuiltinValidator(),
		bus:       eventbus.Noop{},
		logCfg:    config.Logging{Level: "info", Service: "ranforge"},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs the named workflow to a terminal state. A failed run is
// not an error: the returned state's Status carries the outcome, and err
// is reserved for resolution and persistence problems.
func (o *Orchestrator) Execute(ctx context.Context, req RunRequest) (*run.State, error) {
	def, err := o.workflows.Resolve(ctx, req.Workflow)
	if err != nil {
		return nil, err
	}

	workflowID := req.RunID
	if workflowID == "" {
		workflowID = NewRunID(def.Name)
	}

	log, closeLog := o.runLogger(workflowID)
	defer closeLog()
	log = log.With("workflow_id", workflowID, "workflow", def.Name)

	ctx, span := otel.StartRunSpan(ctx, workflowID, def.Name)
	defer span.End()

	state := run.NewState(workflowID, def.Name, time.Now().UTC())
	if err := o.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("persist initial state: %w", err)
	}

	o.publish(ctx, eventbus.SubjectRunStarted, eventbus.RunStartedPayload{
		WorkflowID: workflowID,
		Workflow:   def.Name,
		StageCount: len(def.Stages),
		DryRun:     req.DryRun,
	})
	o.broadcastRunStatus(ctx, state)
	log.Info("workflow started", "stages", len(def.Stages), "dry_run", req.DryRun)

	if req.DryRun {
		for i, stage := range def.Stages {
			log.Info("dry-run stage",
				"index", i+1, "total", len(def.Stages),
				"stage", stage.Name, "agent", stage.Agent,
				"timeout", stage.Timeout(), "critical", stage.Critical)
		}
		return state, nil
	}

	for i, stage := range def.Stages {
		result := o.executeStage(ctx, log, state, def, i)

		if err := state.RecordStage(stage.Name, result); err != nil {
			return nil, fmt.Errorf("record stage %s: %w", stage.Name, err)
		}
		state.AddArtifacts(stage.Name, result.Output.Artifacts)
		if err := o.store.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("persist state after %s: %w", stage.Name, err)
		}

		o.publish(ctx, eventbus.SubjectStageFinished, eventbus.StageFinishedPayload{
			WorkflowID:       workflowID,
			Stage:            stage.Name,
			Agent:            stage.Agent,
			Status:           string(result.Output.Status),
			ExecutionSeconds: result.ExecutionSeconds,
			HandoffTo:        result.Output.HandoffTo,
		})
		o.broadcastStageCompleted(ctx, workflowID, stage, result)
		o.adviseHandoff(ctx, log, workflowID, stage, result.Output)

		switch result.Output.Status {
		case output.StatusError:
			if stage.Critical {
				log.Error("critical stage failed, halting run",
					"stage", stage.Name, "summary", result.Output.Summary)
				if err := state.MarkFailed(); err != nil {
					return nil, err
				}
				if err := o.store.Save(ctx, state); err != nil {
					return nil, fmt.Errorf("persist failed state: %w", err)
				}
				o.finishRun(ctx, state, eventbus.SubjectRunFailed)
				return state, nil
			}
			log.Warn("non-critical stage failed, continuing",
				"stage", stage.Name, "summary", result.Output.Summary)
		case output.StatusWarning:
			log.Warn("stage completed with warning",
				"stage", stage.Name, "summary", result.Output.Summary)
		default:
			log.Info("stage completed",
				"stage", stage.Name, "summary", result.Output.Summary,
				"execution_time", result.ExecutionSeconds)
		}
	}

	if err := state.MarkCompleted(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := o.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("persist completed state: %w", err)
	}
	o.finishRun(ctx, state, eventbus.SubjectRunCompleted)
	log.Info("workflow completed", "stages", len(state.StageOrder))
	return state, nil
}

// executeStage runs one stage to a StageResult. Timeouts and invocation
// failures become synthetic error outputs, never Go errors.
func (o *Orchestrator) executeStage(ctx context.Context, log *slog.Logger, state *run.State, def *workflow.Definition, index int) run.StageResult {
	stage := def.Stages[index]

	ctx, span := otel.StartStageSpan(ctx, stage.Name, stage.Agent)
	defer span.End()

	o.publish(ctx, eventbus.SubjectStageStarted, eventbus.StageStartedPayload{
		WorkflowID: state.WorkflowID,
		Stage:      stage.Name,
		Agent:      stage.Agent,
		Index:      index + 1,
		Total:      len(def.Stages),
	})
	o.broadcastStageStarted(ctx, state.WorkflowID, stage, index+1, len(def.Stages))
	log.Info("stage started", "stage", stage.Name, "agent", stage.Agent,
		"index", index+1, "total", len(def.Stages))

	contextPath := ""
	if len(state.StageOrder) > 0 {
		path, err := o.store.WriteContext(ctx, state.WorkflowID, run.BuildStageContext(state, stage.Name))
		if err != nil {
			log.Warn("stage context write failed, proceeding without context",
				"stage", stage.Name, "error", err)
		} else {
			contextPath = path
		}
	}

	started := time.Now()
	cctx, cancel := context.WithTimeout(ctx, stage.Timeout())
	raw, err := o.exec.Invoke(cctx, executor.Request{
		Agent:       stage.Agent,
		Task:        stage.Task,
		ContextPath: contextPath,
	})
	cancel()
	elapsed := time.Since(started).Seconds()

	var out output.Structured
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		log.Error("agent timed out", "stage", stage.Name, "agent", stage.Agent,
			"timeout", stage.Timeout())
		out = output.Timeout()
	case err != nil:
		log.Error("agent invocation failed", "stage", stage.Name,
			"agent", stage.Agent, "error", err)
		out = output.InvocationFailure(err.Error())
	default:
		if saveErr := o.store.SaveRawOutput(ctx, state.WorkflowID, stage.Name, []byte(raw)); saveErr != nil {
			log.Warn("raw output save failed", "stage", stage.Name, "error", saveErr)
		}
		out = output.Parse(raw)
	}

	return run.StageResult{
		Agent:            stage.Agent,
		Task:             stage.Task,
		Output:           out,
		ExecutionSeconds: elapsed,
		CompletedAt:      time.Now().UTC(),
	}
}

// adviseHandoff surfaces a declared hand-off target as an advisory
// signal. Execution order never follows it.
func (o *Orchestrator) adviseHandoff(ctx context.Context, log *slog.Logger, workflowID string, stage workflow.Stage, out output.Structured) {
	if out.HandoffTo == "" {
		return
	}
	if !o.validator.ValidateHandoff(stage.Agent, out.HandoffTo) {
		log.Warn("agent suggested an undeclared hand-off",
			"stage", stage.Name, "agent", stage.Agent, "target", out.HandoffTo)
	} else {
		log.Info("agent suggested hand-off",
			"stage", stage.Name, "agent", stage.Agent, "target", out.HandoffTo)
	}
	if o.hub != nil {
		o.hub.BroadcastEvent(ctx, broadcast.EventHandoffSuggested, broadcast.HandoffSuggestedEvent{
			WorkflowID: workflowID,
			Stage:      stage.Name,
			Agent:      stage.Agent,
			Target:     out.HandoffTo,
		})
	}
}

// finishRun publishes terminal events and archives the snapshot.
func (o *Orchestrator) finishRun(ctx context.Context, state *run.State, subject string) {
	o.publish(ctx, subject, eventbus.RunFinishedPayload{
		WorkflowID: state.WorkflowID,
		Workflow:   state.Workflow,
		Status:     string(state.Status),
		Stages:     len(state.StageOrder),
	})
	o.broadcastRunStatus(ctx, state)

	if o.archive != nil {
		if err := o.archive.ArchiveRun(ctx, state); err != nil {
			slog.Warn("run archive failed", "workflow_id", state.WorkflowID, "error", err)
		}
	}
}

// runLogger builds the logger for one run, teeing into the per-run log
// file when a sink is configured.
func (o *Orchestrator) runLogger(workflowID string) (*slog.Logger, func()) {
	if o.openLog == nil {
		return logger.New(o.logCfg), func() {}
	}
	w, err := o.openLog(workflowID)
	if err != nil {
		slog.Warn("run log open failed, logging to stdout only",
			"workflow_id", workflowID, "error", err)
		return logger.New(o.logCfg), func() {}
	}
	log := logger.NewWithWriter(o.logCfg, io.MultiWriter(os.Stdout, w))
	return log, func() { _ = w.Close() }
}

func (o *Orchestrator) publish(ctx context.Context, subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := o.bus.Publish(ctx, subject, data); err != nil {
		slog.Warn("event publish failed", "subject", subject, "error", err)
	}
}

func (o *Orchestrator) broadcastRunStatus(ctx context.Context, state *run.State) {
	if o.hub == nil {
		return
	}
	o.hub.BroadcastEvent(ctx, broadcast.EventRunStatus, broadcast.RunStatusEvent{
		WorkflowID: state.WorkflowID,
		Workflow:   state.Workflow,
		Status:     string(state.Status),
	})
}

func (o *Orchestrator) broadcastStageStarted(ctx context.Context, workflowID string, stage workflow.Stage, index, total int) {
	if o.hub == nil {
		return
	}
	o.hub.BroadcastEvent(ctx, broadcast.EventStageStarted, broadcast.StageStartedEvent{
		WorkflowID: workflowID,
		Stage:      stage.Name,
		Agent:      stage.Agent,
		Index:      index,
		Total:      total,
	})
}

func (o *Orchestrator) broadcastStageCompleted(ctx context.Context, workflowID string, stage workflow.Stage, result run.StageResult) {
	if o.hub == nil {
		return
	}
	o.hub.BroadcastEvent(ctx, broadcast.EventStageCompleted, broadcast.StageCompletedEvent{
		WorkflowID:       workflowID,
		Stage:            stage.Name,
		Agent:            stage.Agent,
		Status:           string(result.Output.Status),
		Summary:          result.Output.Summary,
		ExecutionSeconds: result.ExecutionSeconds,
	})
}

// NewRunID builds a unique, human-scannable run identifier.
func NewRunID(workflow string) string {
	return fmt.Sprintf("%s-%s-%s", workflow,
		time.Now().UTC().Format("20060102-150405"),
		uuid.NewString()[:8])
}
