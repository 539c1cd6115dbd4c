// Package executor defines the port for invoking agents.
package executor

import "context"

// Request describes a single agent invocation.
type Request struct {
	// Agent is the name of the agent to invoke.
	Agent string

	// Task is the natural-language instruction for the agent.
	Task string

	// ContextPath points to a YAML file with accumulated workflow
	// context. Empty when no prior stages have completed.
	ContextPath string
}

// Executor is the port interface for running a single agent to completion.
type Executor interface {
	// Invoke runs the agent and returns its raw textual output.
	// Cancellation and per-stage timeouts arrive via ctx.
	Invoke(ctx context.Context, req Request) (string, error)
}
