// Package workflow defines workflow definitions for multi-agent orchestration.
// A definition is an ordered list of stages; each stage binds one agent to one
// task with a timeout and a criticality flag. Definitions are loaded from YAML
// files or taken from the built-in catalog.
package workflow

import (
	"fmt"
	"time"
)

// DefaultStageTimeout is applied to stages that declare no timeout.
const DefaultStageTimeout = 300 * time.Second

// Definition declares a named, ordered sequence of stages. Order in the
// slice is the execution order; dependency is purely positional.
type Definition struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Stages      []Stage `json:"stages" yaml:"stages"`
}

// Stage is one unit of work in a workflow, bound to a single executor
// invocation. TimeoutSeconds of 0 means DefaultStageTimeout.
type Stage struct {
	Name           string `json:"name" yaml:"name"`
	Agent          string `json:"agent" yaml:"agent"`
	Task           string `json:"task" yaml:"task"`
	TimeoutSeconds int    `json:"timeout" yaml:"timeout"`
	Critical       bool   `json:"critical" yaml:"critical"`
}

// Timeout returns the stage timeout as a duration.
func (s Stage) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return DefaultStageTimeout
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks the definition for structural correctness.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("workflow %q must have at least one stage", d.Name)
	}
	seen := make(map[string]struct{}, len(d.Stages))
	for i, s := range d.Stages {
		if s.Name == "" {
			return fmt.Errorf("workflow %q stage %d: name is required", d.Name, i)
		}
		if s.Agent == "" {
			return fmt.Errorf("workflow %q stage %q: agent is required", d.Name, s.Name)
		}
		if s.Task == "" {
			return fmt.Errorf("workflow %q stage %q: task is required", d.Name, s.Name)
		}
		if s.TimeoutSeconds < 0 {
			return fmt.Errorf("workflow %q stage %q: timeout must be >= 0", d.Name, s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("workflow %q: duplicate stage name %q", d.Name, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// StageNames returns the stage names in execution order.
func (d *Definition) StageNames() []string {
	names := make([]string, len(d.Stages))
	for i, s := range d.Stages {
		names[i] = s.Name
	}
	return names
}

// Clone returns a deep copy of the definition.
func (d *Definition) Clone() Definition {
	clone := Definition{
		Name:        d.Name,
		Description: d.Description,
	}
	if len(d.Stages) > 0 {
		clone.Stages = make([]Stage, len(d.Stages))
		copy(clone.Stages, d.Stages)
	}
	return clone
}
