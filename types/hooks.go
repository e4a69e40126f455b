package types

import "context"

// Hooks defines callbacks for simulator and worker lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// so a slow hook never blocks an iteration loop. The context passed to hooks
// is the simulator's lifecycle context and is cancelled during shutdown.
//
// Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - Hook errors are logged but never fail simulator operations
//
// Implementations should complete quickly, respect context cancellation, and
// tolerate being called multiple times.
type Hooks struct {
	// OnStateChanged is called when a worker transitions lifecycle state.
	// gatewayID is empty for transitions of the simulator itself.
	OnStateChanged func(ctx context.Context, gatewayID string, from, to State) error

	// OnPublishFailure is called when a payload publish fails and the
	// payload is diverted into the worker's buffer.
	OnPublishFailure func(ctx context.Context, gatewayID string, err error) error

	// OnBufferEviction is called when a full buffer evicts its oldest
	// payload to admit a new one.
	OnBufferEviction func(ctx context.Context, gatewayID string) error

	// OnDrainComplete is called after each buffer drain pass with the number
	// of messages re-published and the number still buffered.
	OnDrainComplete func(ctx context.Context, gatewayID string, recovered, remaining int) error
}
