package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/RANForge/ranforge/internal/adapter/fsstate"
	"github.com/RANForge/ranforge/internal/domain/run"
	"github.com/RANForge/ranforge/internal/port/eventbus"
	"github.com/RANForge/ranforge/internal/port/executor"
)

// scriptedExecutor maps agent name to a canned response or error and
// records every invocation in order.
type scriptedExecutor struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	invoked   []string
}

func (e *scriptedExecutor) Invoke(_ context.Context, req executor.Request) (string, error) {
	e.mu.Lock()
	e.invoked = append(e.invoked, req.Agent)
	e.mu.Unlock()
	if err, ok := e.errs[req.Agent]; ok {
		return "", err
	}
	return e.responses[req.Agent], nil
}

// recordingBus captures published subjects in order.
type recordingBus struct {
	mu       sync.Mutex
	subjects []string
}

func (b *recordingBus) Publish(_ context.Context, subject string, _ []byte) error {
	b.mu.Lock()
	b.subjects = append(b.subjects, subject)
	b.mu.Unlock()
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string, eventbus.Handler) (func(), error) {
	return func() {}, nil
}
func (b *recordingBus) Drain() error      { return nil }
func (b *recordingBus) Close() error      { return nil }
func (b *recordingBus) IsConnected() bool { return true }

// writeWorkflow drops a three-stage definition into dir. The middle
// stage is critical; the others are not.
func writeWorkflow(t *testing.T, dir string) {
	t.Helper()
	def := `
name: rollout
description: test rollout
stages:
  - name: prepare
    agent: agent-prepare
    task: Prepare the environment
    timeout: 60
  - name: apply
    agent: agent-apply
    task: Apply the changes
    timeout: 60
    critical: true
  - name: verify
    agent: agent-verify
    task: Verify the result
    timeout: 60
`
	if err := os.WriteFile(filepath.Join(dir, "rollout.yaml"), []byte(def), 0o600); err != nil {
		t.Fatal(err)
	}
}

func successOutput(summary string) string {
	return fmt.Sprintf("```yaml\nstatus: success\nsummary: %s\n```\n", summary)
}

func newTestOrchestrator(t *testing.T, exec executor.Executor, opts ...Option) (*Orchestrator, *fsstate.Store) {
	t.Helper()
	wfDir := t.TempDir()
	writeWorkflow(t, wfDir)
	store, err := fsstate.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	workflows := NewWorkflowService(wfDir, nil)
	return NewOrchestrator(workflows, store, exec, opts...), store
}

func TestExecuteCompletesAllStages(t *testing.T) {
	exec := &scriptedExecutor{responses: map[string]string{
		"agent-prepare": successOutput("prepared"),
		"agent-apply":   successOutput("applied"),
		"agent-verify":  successOutput("verified"),
	}}
	o, store := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout"})
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != run.StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if state.CompletedAt == nil {
		t.Fatal("completed run must have completed_at")
	}
	wantOrder := []string{"prepare", "apply", "verify"}
	if len(state.StageOrder) != 3 {
		t.Fatalf("stage order = %v, want %v", state.StageOrder, wantOrder)
	}
	for i, name := range wantOrder {
		if state.StageOrder[i] != name {
			t.Fatalf("stage order = %v, want %v", state.StageOrder, wantOrder)
		}
	}

	// Terminal state must be readable from disk.
	persisted, err := store.Load(context.Background(), state.WorkflowID)
	if err != nil {
		t.Fatal(err)
	}
	if persisted.Status != run.StatusCompleted {
		t.Fatalf("persisted status = %s, want completed", persisted.Status)
	}
}

func TestCriticalFailureHaltsRun(t *testing.T) {
	exec := &scriptedExecutor{
		responses: map[string]string{
			"agent-prepare": successOutput("prepared"),
		},
		errs: map[string]error{
			"agent-apply": errors.New("executor crashed"),
		},
	}
	o, _ := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout"})
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != run.StatusFailed {
		t.Fatalf("status = %s, want failed", state.Status)
	}
	if state.CompletedAt != nil {
		t.Fatal("failed run must not set completed_at")
	}
	if len(state.StageOrder) != 2 {
		t.Fatalf("recorded stages = %v, want prepare and apply only", state.StageOrder)
	}
	for _, agent := range exec.invoked {
		if agent == "agent-verify" {
			t.Fatal("stage after critical failure must never be invoked")
		}
	}
	applied := state.Stages["apply"]
	if !applied.Output.IsError() {
		t.Fatalf("critical stage output = %+v, want synthetic error", applied.Output)
	}
	if !strings.Contains(applied.Output.Summary, "executor crashed") {
		t.Fatalf("summary = %q, want failure message preserved", applied.Output.Summary)
	}
}

func TestNonCriticalFailureContinues(t *testing.T) {
	exec := &scriptedExecutor{
		responses: map[string]string{
			"agent-apply":  successOutput("applied"),
			"agent-verify": successOutput("verified"),
		},
		errs: map[string]error{
			"agent-prepare": errors.New("transient failure"),
		},
	}
	o, _ := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout"})
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != run.StatusCompleted {
		t.Fatalf("status = %s, want completed despite non-critical error", state.Status)
	}
	if len(state.StageOrder) != 3 {
		t.Fatalf("recorded stages = %v, want all three", state.StageOrder)
	}
	if !state.Stages["prepare"].Output.IsError() {
		t.Fatal("failed non-critical stage must still record its error output")
	}
}

func TestTimeoutSynthesizesErrorOutput(t *testing.T) {
	exec := &scriptedExecutor{
		responses: map[string]string{
			"agent-prepare": successOutput("prepared"),
			"agent-verify":  successOutput("verified"),
		},
		errs: map[string]error{
			"agent-apply": context.DeadlineExceeded,
		},
	}
	o, _ := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout"})
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != run.StatusFailed {
		t.Fatalf("status = %s, want failed", state.Status)
	}
	got := state.Stages["apply"].Output
	if got.Summary != "Agent execution timed out" {
		t.Fatalf("summary = %q, want timeout synthesis", got.Summary)
	}
}

func TestDryRunPersistsOnlyInitialState(t *testing.T) {
	exec := &scriptedExecutor{errs: map[string]error{
		"agent-prepare": errors.New("must not be invoked"),
		"agent-apply":   errors.New("must not be invoked"),
		"agent-verify":  errors.New("must not be invoked"),
	}}
	o, store := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout", DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(exec.invoked) != 0 {
		t.Fatalf("dry run invoked agents: %v", exec.invoked)
	}
	if state.Status != run.StatusRunning {
		t.Fatalf("status = %s, want running after dry run", state.Status)
	}
	if len(state.StageOrder) != 0 {
		t.Fatalf("dry run recorded stages: %v", state.StageOrder)
	}

	persisted, err := store.Load(context.Background(), state.WorkflowID)
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted.StageOrder) != 0 {
		t.Fatal("dry run must persist only the initial state")
	}
}

func TestHandoffIsAdvisoryOnly(t *testing.T) {
	// agent-prepare names a hand-off target that is not the next stage;
	// execution order must not change.
	exec := &scriptedExecutor{responses: map[string]string{
		"agent-prepare": "```yaml\nstatus: success\nsummary: prepared\nhandoff_to: agent-verify\n```",
		"agent-apply":   successOutput("applied"),
		"agent-verify":  successOutput("verified"),
	}}
	o, _ := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout"})
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != run.StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	wantOrder := []string{"agent-prepare", "agent-apply", "agent-verify"}
	for i, agent := range wantOrder {
		if exec.invoked[i] != agent {
			t.Fatalf("invocation order = %v, want %v", exec.invoked, wantOrder)
		}
	}
}

func TestExplicitRunIDIsRespected(t *testing.T) {
	exec := &scriptedExecutor{responses: map[string]string{
		"agent-prepare": successOutput("p"),
		"agent-apply":   successOutput("a"),
		"agent-verify":  successOutput("v"),
	}}
	o, _ := newTestOrchestrator(t, exec)

	state, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout", RunID: "rollout-fixed-id"})
	if err != nil {
		t.Fatal(err)
	}
	if state.WorkflowID != "rollout-fixed-id" {
		t.Fatalf("workflow id = %s, want rollout-fixed-id", state.WorkflowID)
	}
}

func TestExecuteUnknownWorkflow(t *testing.T) {
	o, _ := newTestOrchestrator(t, &scriptedExecutor{})

	_, err := o.Execute(context.Background(), RunRequest{Workflow: "no-such-workflow"})
	if err == nil {
		t.Fatal("expected error for unknown workflow")
	}
}

func TestLifecycleEventsPublished(t *testing.T) {
	exec := &scriptedExecutor{responses: map[string]string{
		"agent-prepare": successOutput("p"),
		"agent-apply":   successOutput("a"),
		"agent-verify":  successOutput("v"),
	}}
	bus := &recordingBus{}
	o, _ := newTestOrchestrator(t, exec, WithEventBus(bus))

	if _, err := o.Execute(context.Background(), RunRequest{Workflow: "rollout"}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"runs.started",
		"stages.started", "stages.finished",
		"stages.started", "stages.finished",
		"stages.started", "stages.finished",
		"runs.completed",
	}
	if len(bus.subjects) != len(want) {
		t.Fatalf("subjects = %v, want %v", bus.subjects, want)
	}
	for i, subject := range want {
		if bus.subjects[i] != subject {
			t.Fatalf("subjects = %v, want %v", bus.subjects, want)
		}
	}
}
