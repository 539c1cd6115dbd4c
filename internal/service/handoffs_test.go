package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinTablePassesValidation(t *testing.T) {
	s := NewHandoffService()

	report := s.Validate()
	if !report.OK() {
		t.Fatalf("builtin table must validate cleanly: cycle=%v violations=%v",
			report.Cycle, report.Violations)
	}
}

func TestBuiltinCheckHandoff(t *testing.T) {
	s := NewHandoffService()

	if !s.CheckHandoff("nephio-infrastructure-agent", "oran-nf-deployment-agent") {
		t.Error("declared hand-off rejected")
	}
	if s.CheckHandoff("monitoring-analytics-agent", "nephio-infrastructure-agent") {
		t.Error("undeclared hand-off accepted")
	}
	// Empty target is the terminal hand-off.
	if !s.CheckHandoff("testing-validation-agent", "") {
		t.Error("terminal hand-off rejected")
	}
}

func TestFileTableCycleDetected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	table := `
agents:
  - agent: alpha
    accepts_from: [gamma]
    hands_off_to: beta
    workflow_stage: 1
  - agent: beta
    accepts_from: [alpha]
    hands_off_to: gamma
    workflow_stage: 2
  - agent: gamma
    accepts_from: [beta]
    hands_off_to: alpha
    workflow_stage: 3
`
	if err := os.WriteFile(path, []byte(table), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewHandoffServiceFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := s.Validate()
	if len(report.Cycle) == 0 {
		t.Fatal("expected a cycle in alpha->beta->gamma->alpha")
	}
	if report.Cycle[0] != report.Cycle[len(report.Cycle)-1] {
		t.Fatalf("cycle must close on itself: %v", report.Cycle)
	}
}

func TestFileTableBackwardProgression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	table := `
agents:
  - agent: planner
    accepts_from: [initial]
    hands_off_to: builder
    workflow_stage: 3
  - agent: builder
    accepts_from: [planner]
    hands_off_to: finisher
    workflow_stage: 2
  - agent: finisher
    accepts_from: [builder]
    workflow_stage: 4
`
	if err := os.WriteFile(path, []byte(table), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewHandoffServiceFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := s.Validate()
	if len(report.Violations) != 1 {
		t.Fatalf("violations = %v, want exactly one (3 -> 2)", report.Violations)
	}
	v := report.Violations[0]
	if v.Agent != "planner" || v.Target != "builder" {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestFileTableMissingFile(t *testing.T) {
	if _, err := NewHandoffServiceFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing agent table file")
	}
}
