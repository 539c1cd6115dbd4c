package run

import "time"

// StageContext is the record handed to the executor for one stage: the
// workflow identity plus summaries of everything completed so far. It is
// serialized to a YAML side file because the executor's calling convention
// is string-based.
type StageContext struct {
	Workflow        string            `json:"workflow" yaml:"workflow"`
	Stage           string            `json:"stage" yaml:"stage"`
	PreviousStages  []string          `json:"previous_stages" yaml:"previous_stages"`
	PreviousOutputs map[string]string `json:"previous_outputs,omitempty" yaml:"previous_outputs,omitempty"`
}

// BuildStageContext assembles the context record for the named stage from
// the current run state.
func BuildStageContext(s *State, stage string) StageContext {
	return StageContext{
		Workflow:        s.Workflow,
		Stage:           stage,
		PreviousStages:  s.CompletedStages(),
		PreviousOutputs: s.PreviousOutputs(),
	}
}

// Summary is a compact view of a run for listings and the archive.
type Summary struct {
	WorkflowID  string     `json:"workflow_id"`
	Workflow    string     `json:"workflow"`
	Status      Status     `json:"status"`
	StageCount  int        `json:"stage_count"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Summarize produces the compact view of a state snapshot.
func (s *State) Summarize() Summary {
	return Summary{
		WorkflowID:  s.WorkflowID,
		Workflow:    s.Workflow,
		Status:      s.Status,
		StageCount:  len(s.StageOrder),
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
}
