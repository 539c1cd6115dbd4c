package service

import (
	"fmt"

	"github.com/RANForge/ranforge/internal/domain/handoff"
)

// HandoffReport is the result of statically checking an agent table.
type HandoffReport struct {
	Cycle      []string            `json:"cycle,omitempty"`
	Violations []handoff.Violation `json:"violations,omitempty"`
}

// OK reports whether the table passed both checks.
func (r HandoffReport) OK() bool {
	return len(r.Cycle) == 0 && len(r.Violations) == 0
}

// HandoffService runs the static handoff validators over an agent table.
type HandoffService struct {
	table     handoff.Table
	validator *handoff.Validator
}

// NewHandoffService creates a handoff service over the built-in agent table.
func NewHandoffService() *HandoffService {
	return &HandoffService{
		table:     handoff.BuiltinTable(),
		validator: handoff.BuiltinValidator(),
	}
}

// NewHandoffServiceFromFile creates a handoff service over a YAML-declared
// agent table. The progression validator derives its allowed sets from
// the declared accepts_from edges.
func NewHandoffServiceFromFile(path string) (*HandoffService, error) {
	table, err := handoff.LoadTableFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load agent table: %w", err)
	}
	return &HandoffService{
		table:     table,
		validator: handoff.NewValidatorFromTable(table),
	}, nil
}

// Table returns the agent table under validation.
func (s *HandoffService) Table() handoff.Table { return s.table }

// Validate runs cycle detection and monotonic-progression checks,
// returning every violation found.
func (s *HandoffService) Validate() HandoffReport {
	return HandoffReport{
		Cycle:      handoff.DetectCircularDependency(s.table),
		Violations: s.validator.ValidateWorkflowProgression(s.table),
	}
}

// CheckHandoff reports whether a single from→to hand-off is declared valid.
func (s *HandoffService) CheckHandoff(from, to string) bool {
	return s.validator.ValidateHandoff(from, to)
}
