package eventbus

import "context"

// Noop is a Bus that discards everything. It stands in when no NATS
// server is configured so callers never have to nil-check the bus.
type Noop struct{}

// Publish discards the message.
func (Noop) Publish(ctx context.Context, subject string, data []byte) error { return nil }

// Subscribe registers nothing and returns a no-op cancel.
func (Noop) Subscribe(ctx context.Context, subject string, handler Handler) (func(), error) {
	return func() {}, nil
}

// Drain is a no-op.
func (Noop) Drain() error { return nil }

// Close is a no-op.
func (Noop) Close() error { return nil }

// IsConnected always reports false.
func (Noop) IsConnected() bool { return false }
