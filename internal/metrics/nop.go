// Package metrics provides metrics collector implementations for the
// citysim library: a no-op default and a Prometheus-backed collector, plus
// the HTTP server the daemon exposes them on.
package metrics

import "github.com/Ago95Dev/SA-ADR/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	collector := metrics.NewNop()
//	sim, err := citysim.New(&cfg, client, citysim.WithMetrics(collector))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// WorkerMetrics implementation

// RecordIteration discards the iteration metric.
func (n *NopMetrics) RecordIteration() {}

// RecordPublishSkipped discards the skipped-publish metric.
func (n *NopMetrics) RecordPublishSkipped() {}

// RecordBufferedMessage discards the buffered-message metric.
func (n *NopMetrics) RecordBufferedMessage() {}

// RecordBufferEviction discards the buffer-eviction metric.
func (n *NopMetrics) RecordBufferEviction() {}

// RecordDrainAttempt discards the drain-attempt metric.
func (n *NopMetrics) RecordDrainAttempt(_ /* recovered */ int, _ /* failed */ bool) {}

// RecordWorkerFault discards the worker-fault metric.
func (n *NopMetrics) RecordWorkerFault() {}

// RecordStateTransition discards the state-transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* from */, _ /* to */ types.State) {}

// BusMetrics implementation

// RecordPublish discards the publish metric.
func (n *NopMetrics) RecordPublish(_ /* success */ bool, _ /* seconds */ float64) {}

// FleetMetrics implementation

// RecordFleetSize discards the fleet-size metric.
func (n *NopMetrics) RecordFleetSize(_ /* count */ int) {}

// RecordActiveWorkers discards the active-workers metric.
func (n *NopMetrics) RecordActiveWorkers(_ /* count */ int) {}

// RecordPresenceRefresh discards the presence-refresh metric.
func (n *NopMetrics) RecordPresenceRefresh(_ /* success */ bool) {}
