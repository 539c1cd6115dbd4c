// Package output normalizes raw executor text into the structured output
// contract. Agents are asked to respond in YAML, but there is no schema
// guarantee — unparsable or incomplete output is downgraded to a synthetic
// warning record, never an error. Whether a stage ultimately fails is the
// orchestrator's criticality decision, not the parser's.
package output

// Status classifies a stage result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Artifact describes an output artifact declared by an agent. Content is
// opaque to the orchestrator; only name and type are inspected.
type Artifact struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Content any    `json:"content,omitempty" yaml:"content,omitempty"`
}

// Structured is the normalized output record for one stage. Status and
// Summary are always populated; the parser synthesizes them when the raw
// text does not supply both. RawOutput carries the head of the original
// text only on synthesized records, for postmortem.
type Structured struct {
	Status    Status         `json:"status" yaml:"status"`
	Summary   string         `json:"summary" yaml:"summary"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	NextSteps []string       `json:"next_steps,omitempty" yaml:"next_steps,omitempty"`
	HandoffTo string         `json:"handoff_to,omitempty" yaml:"handoff_to,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	RawOutput string         `json:"raw_output,omitempty" yaml:"raw_output,omitempty"`
}

// IsError reports whether the record carries an error status.
func (s Structured) IsError() bool { return s.Status == StatusError }

// Timeout returns the synthetic record for an executor that exceeded its
// bounded wait.
func Timeout() Structured {
	return Structured{
		Status:  StatusError,
		Summary: "Agent execution timed out",
	}
}

// InvocationFailure returns the synthetic record for an executor that could
// not be invoked or crashed.
func InvocationFailure(msg string) Structured {
	return Structured{
		Status:  StatusError,
		Summary: "Failed to execute agent: " + msg,
	}
}
