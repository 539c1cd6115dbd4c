// Package fsstate implements the statestore port on the local filesystem.
//
// Each run gets a JSON state file named after its workflow ID, written
// atomically (temp file then rename) so concurrent readers never see a
// partial document. Raw agent outputs and stage context side files live
// alongside the state files.
package fsstate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RANForge/ranforge/internal/domain"
	"github.com/RANForge/ranforge/internal/domain/run"
)

// Store persists run state under a single base directory.
type Store struct {
	dir string
}

// New creates a filesystem state store rooted at dir, creating the
// directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the base directory of the store.
func (s *Store) Dir() string { return s.dir }

// Save persists the full run state atomically.
func (s *Store) Save(_ context.Context, state *run.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	return s.writeAtomic(s.statePath(state.WorkflowID), data)
}

// Load returns the state for the given run ID.
func (s *Store) Load(_ context.Context, workflowID string) (*run.State, error) {
	data, err := os.ReadFile(s.statePath(workflowID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s: %w", workflowID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read run state: %w", err)
	}
	var state run.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode run state %s: %w", workflowID, err)
	}
	return &state, nil
}

// List returns summaries of all persisted runs, newest first.
func (s *Store) List(ctx context.Context) ([]run.Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state dir: %w", err)
	}
	var summaries []run.Summary
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		state, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Skip unreadable entries rather than failing the listing.
			continue
		}
		summaries = append(summaries, state.Summarize())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	return summaries, nil
}

// SaveRawOutput persists the raw agent output for one stage.
func (s *Store) SaveRawOutput(_ context.Context, workflowID, stage string, output []byte) error {
	dir := filepath.Join(s.dir, workflowID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	return s.writeAtomic(filepath.Join(dir, stage+"-output.txt"), output)
}

// WriteContext writes the stage context YAML side file and returns its path.
func (s *Store) WriteContext(_ context.Context, workflowID string, sc run.StageContext) (string, error) {
	dir := filepath.Join(s.dir, workflowID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	data, err := yaml.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("marshal stage context: %w", err)
	}
	path := filepath.Join(dir, "context.yaml")
	if err := s.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// LogWriter opens the per-run log file in append mode. The caller owns
// the returned file.
func (s *Store) LogWriter(workflowID string) (*os.File, error) {
	dir := filepath.Join(s.dir, workflowID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "workflow.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return f, nil
}

func (s *Store) statePath(workflowID string) string {
	return filepath.Join(s.dir, workflowID+".json")
}

// writeAtomic writes data to path via a temp file and rename so readers
// never observe a partial file.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
