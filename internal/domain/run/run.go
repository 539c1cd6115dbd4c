// Package run defines the persisted state of one workflow run. A run is
// single-owner: the orchestrator instance that created it holds exclusive
// write access for its lifetime, so the types here carry no locking.
package run

import (
	"fmt"
	"time"

	"github.com/RANForge/ranforge/internal/domain"
	"github.com/RANForge/ranforge/internal/domain/output"
)

// Status is the lifecycle state of a workflow run. Transitions are
// monotone: running → completed or running → failed, with no way back.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StageResult records one stage attempt. A result is created exactly once
// per stage; there are no in-place retries.
type StageResult struct {
	Agent            string            `json:"agent"`
	Task             string            `json:"task"`
	Output           output.Structured `json:"output"`
	ExecutionSeconds float64           `json:"execution_time"`
	CompletedAt      time.Time         `json:"completed_at"`
}

// State is the durable snapshot of one workflow run. Stages only ever
// grows during a run; StageOrder records completion order since JSON
// object keys carry none.
type State struct {
	WorkflowID  string                       `json:"workflow_id"`
	Workflow    string                       `json:"workflow"`
	StartedAt   time.Time                    `json:"started_at"`
	Status      Status                       `json:"status"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
	Stages      map[string]StageResult       `json:"stages"`
	StageOrder  []string                     `json:"stage_order"`
	Artifacts   map[string][]output.Artifact `json:"artifacts"`
}

// NewState creates the initial state record for a run.
func NewState(workflowID, workflowName string, startedAt time.Time) *State {
	return &State{
		WorkflowID: workflowID,
		Workflow:   workflowName,
		StartedAt:  startedAt,
		Status:     StatusRunning,
		Stages:     make(map[string]StageResult),
		Artifacts:  make(map[string][]output.Artifact),
	}
}

// RecordStage appends a stage result. Overwriting an existing result or
// mutating a terminal run violates the lifecycle and returns ErrConflict.
func (s *State) RecordStage(name string, result StageResult) error {
	if s.Status.IsTerminal() {
		return fmt.Errorf("record stage %q on %s run: %w", name, s.Status, domain.ErrConflict)
	}
	if _, exists := s.Stages[name]; exists {
		return fmt.Errorf("record stage %q: %w", name, domain.ErrConflict)
	}
	if s.Stages == nil {
		s.Stages = make(map[string]StageResult)
	}
	s.Stages[name] = result
	s.StageOrder = append(s.StageOrder, name)
	return nil
}

// AddArtifacts merges artifacts declared by a stage into the run.
func (s *State) AddArtifacts(stage string, artifacts []output.Artifact) {
	if len(artifacts) == 0 {
		return
	}
	if s.Artifacts == nil {
		s.Artifacts = make(map[string][]output.Artifact)
	}
	s.Artifacts[stage] = append(s.Artifacts[stage], artifacts...)
}

// MarkCompleted transitions the run to completed and stamps CompletedAt.
func (s *State) MarkCompleted(at time.Time) error {
	if err := s.transition(StatusCompleted); err != nil {
		return err
	}
	s.CompletedAt = &at
	return nil
}

// MarkFailed transitions the run to failed. CompletedAt stays unset; the
// run did not complete.
func (s *State) MarkFailed() error {
	return s.transition(StatusFailed)
}

func (s *State) transition(to Status) error {
	if s.Status.IsTerminal() {
		return fmt.Errorf("transition %s to %s: %w", s.Status, to, domain.ErrConflict)
	}
	s.Status = to
	return nil
}

// CompletedStages returns stage names in completion order.
func (s *State) CompletedStages() []string {
	names := make([]string, len(s.StageOrder))
	copy(names, s.StageOrder)
	return names
}

// PreviousOutputs maps each completed stage to its output summary, for
// threading into the next stage's context.
func (s *State) PreviousOutputs() map[string]string {
	if len(s.StageOrder) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.StageOrder))
	for _, name := range s.StageOrder {
		out[name] = s.Stages[name].Output.Summary
	}
	return out
}
