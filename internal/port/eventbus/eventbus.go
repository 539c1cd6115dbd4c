// Package eventbus defines the event bus port (interface).
package eventbus

import "context"

// Handler processes a message received from the bus.
type Handler func(ctx context.Context, subject string, data []byte) error

// Bus is the port interface for publishing and subscribing to
// workflow lifecycle events.
type Bus interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers a handler for messages on the given subject.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Drain gracefully drains all subscriptions before closing.
	Drain() error

	// Close shuts down the bus connection immediately.
	Close() error

	// IsConnected reports whether the bus is currently connected.
	IsConnected() bool
}

// Subject constants for workflow lifecycle events.
const (
	SubjectRunStarted    = "runs.started"
	SubjectRunCompleted  = "runs.completed"
	SubjectRunFailed     = "runs.failed"
	SubjectStageStarted  = "stages.started"
	SubjectStageFinished = "stages.finished"
)
