// Package http provides the HTTP inspection API for RANForge serve mode.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/RANForge/ranforge/internal/port/statestore"
	"github.com/RANForge/ranforge/internal/runpool"
	"github.com/RANForge/ranforge/internal/service"
)

// Handlers bundles the services exposed over HTTP.
type Handlers struct {
	workflows    *service.WorkflowService
	orchestrator *service.Orchestrator
	handoffs     *service.HandoffService
	runs         statestore.Store
	pool         *runpool.Pool
}

// NewHandlers creates the handler set for serve mode. pool may be nil,
// in which case runs started over the API are not concurrency-limited.
func NewHandlers(workflows *service.WorkflowService, orchestrator *service.Orchestrator, handoffs *service.HandoffService, runs statestore.Store, pool *runpool.Pool) *Handlers {
	return &Handlers{
		workflows:    workflows,
		orchestrator: orchestrator,
		handoffs:     handoffs,
		runs:         runs,
		pool:         pool,
	}
}

// ListWorkflows returns all resolvable workflow names.
func (h *Handlers) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	names, err := h.workflows.Names(r.Context())
	if err != nil {
		writeDomainError(w, err, "workflows unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workflows": names})
}

// GetWorkflow returns one resolved workflow definition.
func (h *Handlers) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	def, err := h.workflows.Resolve(r.Context(), urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "workflow not found")
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// ListRuns returns summaries of all persisted runs, newest first.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.runs.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "runs unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

// GetRun returns the full persisted state of one run.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	state, err := h.runs.Load(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// startRunRequest is the body of POST /api/runs.
type startRunRequest struct {
	Workflow string `json:"workflow"`
	RunID    string `json:"run_id,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// StartRun resolves the workflow, then executes it asynchronously. The
// response carries the run ID so clients can poll GET /api/runs/{id} or
// watch the WebSocket feed.
func (h *Handlers) StartRun(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[startRunRequest](w, r)
	if !ok {
		return
	}
	if req.Workflow == "" {
		writeError(w, http.StatusBadRequest, "workflow is required")
		return
	}
	if _, err := h.workflows.Resolve(r.Context(), req.Workflow); err != nil {
		writeDomainError(w, err, "workflow not found")
		return
	}

	runID := req.RunID
	if runID == "" {
		runID = service.NewRunID(req.Workflow)
	}
	runReq := service.RunRequest{Workflow: req.Workflow, RunID: runID, DryRun: req.DryRun}

	go func() {
		// The run outlives the HTTP request.
		ctx := context.Background()
		err := h.pool.Run(ctx, func() error {
			state, err := h.orchestrator.Execute(ctx, runReq)
			if err != nil {
				return err
			}
			slog.Info("async run finished", "workflow_id", state.WorkflowID, "status", state.Status)
			return nil
		})
		if err != nil {
			slog.Error("async run failed", "workflow", req.Workflow, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"workflow_id": runID,
		"workflow":    req.Workflow,
		"dry_run":     req.DryRun,
	})
}

// validateHandoffRequest is the optional body of POST /api/handoffs/validate.
type validateHandoffRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// ValidateHandoffs runs the static validators over the built-in agent
// table. With a from/to pair in the body it additionally checks that
// single hand-off.
func (h *Handlers) ValidateHandoffs(w http.ResponseWriter, r *http.Request) {
	var single *bool
	if r.ContentLength > 0 {
		req, ok := readJSON[validateHandoffRequest](w, r)
		if !ok {
			return
		}
		if req.From != "" {
			v := h.handoffs.CheckHandoff(req.From, req.To)
			single = &v
		}
	}

	report := h.handoffs.Validate()
	resp := map[string]any{
		"ok":         report.OK(),
		"cycle":      report.Cycle,
		"violations": report.Violations,
	}
	if single != nil {
		resp["handoff_valid"] = *single
	}
	writeJSON(w, http.StatusOK, resp)
}
