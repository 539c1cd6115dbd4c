package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RANForge/ranforge/internal/domain"
	"github.com/RANForge/ranforge/internal/domain/run"
)

// Archive implements archive.Store using PostgreSQL.
type Archive struct {
	pool *pgxpool.Pool
}

// NewArchive creates a run archive backed by the given connection pool.
func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

// ArchiveRun inserts or updates the archived copy of a run.
func (a *Archive) ArchiveRun(ctx context.Context, state *run.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	_, err = a.pool.Exec(ctx,
		`INSERT INTO runs (workflow_id, workflow, status, started_at, completed_at, stage_count, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (workflow_id) DO UPDATE SET
		     status = EXCLUDED.status,
		     completed_at = EXCLUDED.completed_at,
		     stage_count = EXCLUDED.stage_count,
		     state = EXCLUDED.state,
		     archived_at = now()`,
		state.WorkflowID, state.Workflow, string(state.Status),
		state.StartedAt, state.CompletedAt, len(state.StageOrder), doc)
	if err != nil {
		return fmt.Errorf("archive run %s: %w", state.WorkflowID, err)
	}
	return nil
}

// ListRuns returns summaries of archived runs, newest first.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]run.Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.pool.Query(ctx,
		`SELECT workflow_id, workflow, status, stage_count, started_at, completed_at
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var summaries []run.Summary
	for rows.Next() {
		var (
			s      run.Summary
			status string
		)
		if err := rows.Scan(&s.WorkflowID, &s.Workflow, &status, &s.StageCount, &s.StartedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		s.Status = run.Status(status)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetRun returns the archived state for the given run ID.
func (a *Archive) GetRun(ctx context.Context, workflowID string) (*run.State, error) {
	var doc []byte
	err := a.pool.QueryRow(ctx,
		`SELECT state FROM runs WHERE workflow_id = $1`, workflowID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", workflowID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", workflowID, err)
	}
	var state run.State
	if err := json.Unmarshal(doc, &state); err != nil {
		return nil, fmt.Errorf("decode archived run %s: %w", workflowID, err)
	}
	return &state, nil
}
