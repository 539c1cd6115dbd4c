// Package archive defines the port for the durable run archive.
package archive

import (
	"context"

	"github.com/RANForge/ranforge/internal/domain/run"
)

// Store is the port interface for archiving completed runs.
//
// The archive is an optional durability layer on top of the filesystem
// state store. Orchestration never depends on it being present.
type Store interface {
	// ArchiveRun inserts or updates the archived copy of a run.
	ArchiveRun(ctx context.Context, state *run.State) error

	// ListRuns returns summaries of archived runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]run.Summary, error)

	// GetRun returns the archived state for the given run ID.
	// Returns domain.ErrNotFound when the run was never archived.
	GetRun(ctx context.Context, workflowID string) (*run.State, error)
}
