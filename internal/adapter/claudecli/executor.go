// Package claudecli implements the executor port by shelling out to the
// Claude Code CLI.
package claudecli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/RANForge/ranforge/internal/port/executor"
)

// formatReminder is appended to every command so agents emit output the
// parser understands.
const formatReminder = ". Format output as YAML with status, summary, details, next_steps, handoff_to, and artifacts fields."

// Executor invokes agents through the local CLI binary.
type Executor struct {
	binary string
	// execCommand is swappable for testing.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates a CLI executor. binary defaults to "claude" when empty.
func New(binary string) *Executor {
	if binary == "" {
		binary = "claude"
	}
	return &Executor{binary: binary, execCommand: exec.CommandContext}
}

// Invoke runs the agent and returns its raw stdout. The command text is
// assembled from the request; cancellation and timeouts arrive via ctx.
func (e *Executor) Invoke(ctx context.Context, req executor.Request) (string, error) {
	cmd := e.execCommand(ctx, e.binary, "code", BuildCommand(req))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("claudecli: run %s: %w", e.binary, err)
		}
		return "", fmt.Errorf("claudecli: run %s: %s: %w", e.binary, msg, err)
	}
	return stdout.String(), nil
}

// BuildCommand assembles the natural-language command sent to the CLI.
func BuildCommand(req executor.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Use %s to %s", req.Agent, req.Task)
	if req.ContextPath != "" {
		fmt.Fprintf(&b, ". Context is available in %s", req.ContextPath)
	}
	b.WriteString(formatReminder)
	return b.String()
}
