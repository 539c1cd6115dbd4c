package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/RANForge/ranforge/internal/domain"
	"github.com/RANForge/ranforge/internal/domain/workflow"
	"github.com/RANForge/ranforge/internal/port/cache"
)

// definitionCacheTTL bounds how long a resolved definition is served
// from cache before the directory is consulted again.
const definitionCacheTTL = time.Minute

// WorkflowService resolves workflow definitions from the built-in
// catalog and an optional directory of YAML definitions. Directory
// definitions shadow built-ins with the same name.
type WorkflowService struct {
	builtins map[string]workflow.Definition
	dir      string
	cache    cache.Cache
}

// NewWorkflowService creates a workflow service. dir may be empty; c may
// be nil to disable caching.
func NewWorkflowService(dir string, c cache.Cache) *WorkflowService {
	defs := workflow.BuiltinDefinitions()
	builtins := make(map[string]workflow.Definition, len(defs))
	for _, def := range defs {
		builtins[def.Name] = def
	}
	return &WorkflowService{
		builtins: builtins,
		dir:      dir,
		cache:    c,
	}
}

// Resolve returns the definition for name. Fails with domain.ErrNotFound
// when the name matches neither a built-in nor a directory definition.
func (s *WorkflowService) Resolve(ctx context.Context, name string) (*workflow.Definition, error) {
	if def, ok := s.fromCache(ctx, name); ok {
		return def, nil
	}

	external, err := s.loadExternal(ctx)
	if err != nil {
		return nil, err
	}
	if def, ok := external[name]; ok {
		s.toCache(ctx, name, &def)
		return &def, nil
	}
	if def, ok := s.builtins[name]; ok {
		cloned := def.Clone()
		s.toCache(ctx, name, &cloned)
		return &cloned, nil
	}
	return nil, fmt.Errorf("workflow %q: %w", name, domain.ErrNotFound)
}

// Names returns all resolvable workflow names, sorted.
func (s *WorkflowService) Names(ctx context.Context) ([]string, error) {
	external, err := s.loadExternal(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(s.builtins)+len(external))
	for name := range s.builtins {
		seen[name] = struct{}{}
	}
	for name := range external {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *WorkflowService) loadExternal(_ context.Context) (map[string]workflow.Definition, error) {
	if s.dir == "" {
		return nil, nil
	}
	defs, err := workflow.LoadFromDirectory(s.dir)
	if err != nil {
		return nil, fmt.Errorf("load workflow dir %s: %w", s.dir, err)
	}
	byName := make(map[string]workflow.Definition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return byName, nil
}

func (s *WorkflowService) fromCache(ctx context.Context, name string) (*workflow.Definition, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, found, err := s.cache.Get(ctx, cacheKey(name))
	if err != nil || !found {
		return nil, false
	}
	var def workflow.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		slog.Warn("discarding corrupt cached definition", "workflow", name, "error", err)
		return nil, false
	}
	return &def, true
}

func (s *WorkflowService) toCache(ctx context.Context, name string, def *workflow.Definition) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(def)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(name), data, definitionCacheTTL); err != nil {
		slog.Debug("definition cache set failed", "workflow", name, "error", err)
	}
}

func cacheKey(name string) string { return "workflow:" + name }
