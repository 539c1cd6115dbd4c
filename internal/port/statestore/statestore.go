// Package statestore defines the port for persisting run state.
package statestore

import (
	"context"

	"github.com/RANForge/ranforge/internal/domain/run"
)

// Store is the port interface for run state persistence.
//
// Implementations must make Save atomic: a reader never observes a
// partially written state file.
type Store interface {
	// Save persists the full run state, replacing any previous version.
	Save(ctx context.Context, state *run.State) error

	// Load returns the state for the given run ID.
	// Returns domain.ErrNotFound when no such run exists.
	Load(ctx context.Context, workflowID string) (*run.State, error)

	// List returns summaries of all persisted runs, newest first.
	List(ctx context.Context) ([]run.Summary, error)

	// SaveRawOutput persists the raw agent output for one stage.
	SaveRawOutput(ctx context.Context, workflowID, stage string, output []byte) error

	// WriteContext writes the stage context YAML side file and returns
	// its absolute path, for handing to the agent executor.
	WriteContext(ctx context.Context, workflowID string, sc run.StageContext) (string, error)
}
