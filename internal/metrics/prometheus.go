package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ago95Dev/SA-ADR/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metrics are registered lazily on first use so constructing the collector
// never fails, and are aggregated per instance rather than per gateway: a
// fleet can run thousands of gateways and per-gateway label cardinality
// would overwhelm the registry.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	iterations      prometheus.Counter
	publishSkipped  prometheus.Counter
	publishResults  *prometheus.CounterVec
	publishLatency  prometheus.Histogram
	bufferedTotal   prometheus.Counter
	evictionsTotal  prometheus.Counter
	drainAttempts   *prometheus.CounterVec
	drainRecovered  prometheus.Counter
	workerFaults    prometheus.Counter
	stateChanges    *prometheus.CounterVec
	fleetSize       prometheus.Gauge
	activeWorkers   prometheus.Gauge
	presenceResults *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "citysim" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "citysim"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.iterations = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "iterations_total",
			Help:      "Total worker iterations, including skipped and failed ones.",
		})
		p.publishSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "publish_skipped_total",
			Help:      "Iterations that produced no readings and made no publish call.",
		})
		p.publishResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "bus",
			Name:      "publish_results_total",
			Help:      "Publish attempt outcomes (success, failure).",
		}, []string{"result"})
		p.publishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "bus",
			Name:      "publish_latency_seconds",
			Help:      "Latency of bus publish attempts in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms .. ~8s
		})
		p.bufferedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "buffered_messages_total",
			Help:      "Payloads diverted into worker buffers after publish failures.",
		})
		p.evictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "buffer_evictions_total",
			Help:      "Oldest-entry evictions from full worker buffers. Every eviction is data loss.",
		})
		p.drainAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "drain_attempts_total",
			Help:      "Buffer drain passes by outcome (complete, partial).",
		}, []string{"outcome"})
		p.drainRecovered = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "drain_recovered_total",
			Help:      "Buffered payloads successfully re-published by drains.",
		})
		p.workerFaults = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "faults_total",
			Help:      "Unexpected errors or panics caught inside worker iterations.",
		})
		p.stateChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "state_transitions_total",
			Help:      "Worker lifecycle state transitions by target state.",
		}, []string{"to"})
		p.fleetSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "fleet",
			Name:      "gateways",
			Help:      "Number of gateways built for this instance.",
		})
		p.activeWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "fleet",
			Name:      "active_workers",
			Help:      "Number of currently running gateway workers.",
		})
		p.presenceResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "presence",
			Name:      "refresh_results_total",
			Help:      "Instance presence heartbeat outcomes (success, failure).",
		}, []string{"result"})

		p.reg.MustRegister(
			p.iterations,
			p.publishSkipped,
			p.publishResults,
			p.publishLatency,
			p.bufferedTotal,
			p.evictionsTotal,
			p.drainAttempts,
			p.drainRecovered,
			p.workerFaults,
			p.stateChanges,
			p.fleetSize,
			p.activeWorkers,
			p.presenceResults,
		)
	})
}

// RecordIteration increments the iteration counter.
func (p *PrometheusCollector) RecordIteration() {
	p.ensureRegistered()
	p.iterations.Inc()
}

// RecordPublishSkipped increments the skipped-publish counter.
func (p *PrometheusCollector) RecordPublishSkipped() {
	p.ensureRegistered()
	p.publishSkipped.Inc()
}

// RecordBufferedMessage increments the buffered-message counter.
func (p *PrometheusCollector) RecordBufferedMessage() {
	p.ensureRegistered()
	p.bufferedTotal.Inc()
}

// RecordBufferEviction increments the buffer-eviction counter.
func (p *PrometheusCollector) RecordBufferEviction() {
	p.ensureRegistered()
	p.evictionsTotal.Inc()
}

// RecordDrainAttempt records one drain pass and the payloads it recovered.
func (p *PrometheusCollector) RecordDrainAttempt(recovered int, failed bool) {
	p.ensureRegistered()

	outcome := "complete"
	if failed {
		outcome = "partial"
	}
	p.drainAttempts.WithLabelValues(outcome).Inc()
	p.drainRecovered.Add(float64(recovered))
}

// RecordWorkerFault increments the worker-fault counter.
func (p *PrometheusCollector) RecordWorkerFault() {
	p.ensureRegistered()
	p.workerFaults.Inc()
}

// RecordStateTransition counts the transition by target state.
func (p *PrometheusCollector) RecordStateTransition(_ /* from */, to types.State) {
	p.ensureRegistered()
	p.stateChanges.WithLabelValues(to.String()).Inc()
}

// RecordPublish records a publish outcome and its latency.
func (p *PrometheusCollector) RecordPublish(success bool, seconds float64) {
	p.ensureRegistered()

	result := "success"
	if !success {
		result = "failure"
	}
	p.publishResults.WithLabelValues(result).Inc()
	p.publishLatency.Observe(seconds)
}

// RecordFleetSize sets the gateway count gauge.
func (p *PrometheusCollector) RecordFleetSize(count int) {
	p.ensureRegistered()
	p.fleetSize.Set(float64(count))
}

// RecordActiveWorkers sets the active-workers gauge.
func (p *PrometheusCollector) RecordActiveWorkers(count int) {
	p.ensureRegistered()
	p.activeWorkers.Set(float64(count))
}

// RecordPresenceRefresh records a presence heartbeat outcome.
func (p *PrometheusCollector) RecordPresenceRefresh(success bool) {
	p.ensureRegistered()

	result := "success"
	if !success {
		result = "failure"
	}
	p.presenceResults.WithLabelValues(result).Inc()
}
