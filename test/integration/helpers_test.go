package integration_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Ago95Dev/SA-ADR/types"
)

var errTransient = errors.New("transient broker failure")

// flakyBus fails the first N publishes per partition key, then delegates to
// the real client. Simulates a broker outage at startup.
type flakyBus struct {
	inner          types.BusPublisher
	failuresPerKey int

	mu       sync.Mutex
	failures map[string]int
}

func (b *flakyBus) Publish(ctx context.Context, topic, key string, data []byte) error {
	b.mu.Lock()
	if b.failures == nil {
		b.failures = make(map[string]int)
	}
	if b.failures[key] < b.failuresPerKey {
		b.failures[key]++
		b.mu.Unlock()

		return errTransient
	}
	b.mu.Unlock()

	return b.inner.Publish(ctx, topic, key, data)
}

func (b *flakyBus) Close() error {
	return b.inner.Close()
}
