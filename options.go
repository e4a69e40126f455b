package citysim

import (
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Option configures a Simulator with optional dependencies.
type Option func(*simulatorOptions)

// simulatorOptions holds optional Simulator configuration.
type simulatorOptions struct {
	logger     types.Logger
	metrics    types.MetricsCollector
	hooks      *types.Hooks
	producer   types.ReadingProducer
	presenceKV jetstream.KeyValue
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with slog-style structured loggers)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	log := logging.NewSlogDefault()
//	sim, err := citysim.New(cfg, client, citysim.WithLogger(log))
func WithLogger(logger types.Logger) Option {
	return func(o *simulatorOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "citysim")
//	sim, err := citysim.New(cfg, client, citysim.WithMetrics(collector))
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *simulatorOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	hooks := &citysim.Hooks{
//	    OnPublishFailure: func(ctx context.Context, gatewayID string, err error) error {
//	        return alert(gatewayID, err)
//	    },
//	}
//	sim, err := citysim.New(cfg, client, citysim.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *simulatorOptions) {
		o.hooks = hooks
	}
}

// WithReadingProducer replaces the default simulated reading producer.
//
// Useful for replaying recorded data or injecting failures in tests.
//
// Parameters:
//   - producer: ReadingProducer implementation
//
// Returns:
//   - Option: Functional option for New
func WithReadingProducer(producer types.ReadingProducer) Option {
	return func(o *simulatorOptions) {
		o.producer = producer
	}
}

// WithPresence enables instance presence announcements in the given KV
// bucket. The simulator claims its instance ID at Start and fails with
// ErrInstanceConflict when another live process holds it.
//
// The bucket should be created with the configured presence TTL so a dead
// instance frees its ID without manual cleanup.
//
// Parameters:
//   - kv: JetStream KV bucket for presence entries
//
// Returns:
//   - Option: Functional option for New
func WithPresence(kv jetstream.KeyValue) Option {
	return func(o *simulatorOptions) {
		o.presenceKV = kv
	}
}
