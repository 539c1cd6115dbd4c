// Package handoff statically validates declared agent hand-off topology:
// cycle detection and stage-progression checks over a table of agent
// declarations. It is a pre-flight/CI consistency check on the declared
// graph, not a runtime gate — the orchestrator treats hand-off suggestions
// as advisory and never routes on them.
package handoff

import "fmt"

// CrossCuttingStage marks agents exempt from progression checks: they may
// hand off to any stage.
const CrossCuttingStage = 0

// Agent is one entry in the hand-off declaration table.
type Agent struct {
	Name          string   `json:"name" yaml:"name"`
	AcceptsFrom   []string `json:"accepts_from,omitempty" yaml:"accepts_from,omitempty"`
	HandsOffTo    string   `json:"hands_off_to,omitempty" yaml:"hands_off_to,omitempty"`
	WorkflowStage int      `json:"workflow_stage" yaml:"workflow_stage"`
}

// Table maps agent name to its declaration.
type Table map[string]Agent

// Validate checks the table for internal consistency: every referenced
// agent must be declared and stage numbers must be non-negative.
func (t Table) Validate() error {
	for name, a := range t {
		if a.WorkflowStage < 0 {
			return fmt.Errorf("agent %q: workflow_stage must be >= 0", name)
		}
		if a.HandsOffTo != "" {
			if _, ok := t[a.HandsOffTo]; !ok {
				return fmt.Errorf("agent %q hands off to undeclared agent %q", name, a.HandsOffTo)
			}
		}
		for _, from := range a.AcceptsFrom {
			if from == "initial" {
				continue
			}
			if _, ok := t[from]; !ok {
				return fmt.Errorf("agent %q accepts from undeclared agent %q", name, from)
			}
		}
	}
	return nil
}

// Violation reports one stage-progression failure.
type Violation struct {
	Agent     string `json:"agent"`
	Target    string `json:"target"`
	FromStage int    `json:"from_stage"`
	ToStage   int    `json:"to_stage"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (stage %d) cannot hand off to %s (stage %d) - violates progression",
		v.Agent, v.FromStage, v.Target, v.ToStage)
}
