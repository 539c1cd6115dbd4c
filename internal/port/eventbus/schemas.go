package eventbus

// RunStartedPayload is the schema for runs.started messages.
type RunStartedPayload struct {
	WorkflowID string `json:"workflow_id"`
	Workflow   string `json:"workflow"`
	StageCount int    `json:"stage_count"`
	DryRun     bool   `json:"dry_run"`
}

// RunFinishedPayload is the schema for runs.completed and runs.failed messages.
type RunFinishedPayload struct {
	WorkflowID string `json:"workflow_id"`
	Workflow   string `json:"workflow"`
	Status     string `json:"status"`
	Stages     int    `json:"stages"`
}

// StageStartedPayload is the schema for stages.started messages.
type StageStartedPayload struct {
	WorkflowID string `json:"workflow_id"`
	Stage      string `json:"stage"`
	Agent      string `json:"agent"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
}

// StageFinishedPayload is the schema for stages.finished messages.
type StageFinishedPayload struct {
	WorkflowID       string `json:"workflow_id"`
	Stage            string `json:"stage"`
	Agent            string `json:"agent"`
	Status           string `json:"status"`
	ExecutionSeconds float64 `json:"execution_time"`
	HandoffTo        string  `json:"handoff_to,omitempty"`
}
