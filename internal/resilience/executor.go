package resilience

import (
	"context"

	"github.com/RANForge/ranforge/internal/port/executor"
)

// GuardedExecutor wraps an executor with a circuit breaker. When the agent
// binary fails repeatedly (missing, crashing on startup) the breaker opens
// and subsequent stages fail fast with ErrCircuitOpen instead of spawning
// more doomed processes.
type GuardedExecutor struct {
	next    executor.Executor
	breaker *Breaker
}

// GuardExecutor wraps next with the given breaker.
func GuardExecutor(next executor.Executor, breaker *Breaker) *GuardedExecutor {
	return &GuardedExecutor{next: next, breaker: breaker}
}

// Invoke runs the underlying executor through the breaker. Context
// expiry is not counted as a breaker failure: a slow agent is not a
// broken one.
func (g *GuardedExecutor) Invoke(ctx context.Context, req executor.Request) (string, error) {
	var out string
	err := g.breaker.Execute(func() error {
		var err error
		out, err = g.next.Invoke(ctx, req)
		if err != nil && ctx.Err() != nil {
			// Report the timeout to the caller but not to the breaker.
			return nil
		}
		return err
	})
	if err == nil && ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err
}
