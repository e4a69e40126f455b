// Package hooks provides the default no-op lifecycle hook implementations.
package hooks

import (
	"context"

	"github.com/Ago95Dev/SA-ADR/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, string, types.State, types.State) error = (*NopHooks)(nil).OnStateChanged
	_ func(context.Context, string, error) error                    = (*NopHooks)(nil).OnPublishFailure
	_ func(context.Context, string) error                           = (*NopHooks)(nil).OnBufferEviction
	_ func(context.Context, string, int, int) error                 = (*NopHooks)(nil).OnDrainComplete
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnStateChanged:   h.OnStateChanged,
		OnPublishFailure: h.OnPublishFailure,
		OnBufferEviction: h.OnBufferEviction,
		OnDrainComplete:  h.OnDrainComplete,
	}
}

// OnStateChanged is a no-op implementation.
func (h *NopHooks) OnStateChanged(ctx context.Context, gatewayID string, from, to types.State) error {
	return nil
}

// OnPublishFailure is a no-op implementation.
func (h *NopHooks) OnPublishFailure(ctx context.Context, gatewayID string, err error) error {
	return nil
}

// OnBufferEviction is a no-op implementation.
func (h *NopHooks) OnBufferEviction(ctx context.Context, gatewayID string) error {
	return nil
}

// OnDrainComplete is a no-op implementation.
func (h *NopHooks) OnDrainComplete(ctx context.Context, gatewayID string, recovered, remaining int) error {
	return nil
}
