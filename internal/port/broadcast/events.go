package broadcast

// Event type constants for the real-time feed.
const (
	EventRunStatus        = "run.status"
	EventStageStarted     = "stage.started"
	EventStageCompleted   = "stage.completed"
	EventHandoffSuggested = "handoff_suggested"
)

// RunStatusEvent is broadcast when a run starts, completes, or fails.
type RunStatusEvent struct {
	WorkflowID string `json:"workflow_id"`
	Workflow   string `json:"workflow"`
	Status     string `json:"status"`
}

// StageStartedEvent is broadcast when a stage begins executing.
type StageStartedEvent struct {
	WorkflowID string `json:"workflow_id"`
	Stage      string `json:"stage"`
	Agent      string `json:"agent"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
}

// StageCompletedEvent is broadcast when a stage finishes, in any status.
type StageCompletedEvent struct {
	WorkflowID       string  `json:"workflow_id"`
	Stage            string  `json:"stage"`
	Agent            string  `json:"agent"`
	Status           string  `json:"status"`
	Summary          string  `json:"summary"`
	ExecutionSeconds float64 `json:"execution_time"`
}

// HandoffSuggestedEvent is broadcast when an agent names a hand-off
// target. Advisory only, execution order never follows it.
type HandoffSuggestedEvent struct {
	WorkflowID string `json:"workflow_id"`
	Stage      string `json:"stage"`
	Agent      string `json:"agent"`
	Target     string `json:"target"`
}
