package citysim

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/Ago95Dev/SA-ADR/internal/hooks"
	"github.com/Ago95Dev/SA-ADR/internal/logger"
	"github.com/Ago95Dev/SA-ADR/internal/metrics"
	"github.com/Ago95Dev/SA-ADR/internal/presence"
	"github.com/Ago95Dev/SA-ADR/internal/worker"
	"github.com/Ago95Dev/SA-ADR/partition"
	"github.com/Ago95Dev/SA-ADR/registry"
	"github.com/Ago95Dev/SA-ADR/sensors"
	"github.com/Ago95Dev/SA-ADR/types"
)

// Simulator owns one instance's share of the gateway fleet.
//
// Construction is deterministic for a fixed (Config, Seed): the instance's
// edge range is computed, one gateway is built per edge index, and each
// gateway gets a dedicated worker goroutine at Start. The simulator itself
// follows the same Created → Running → Stopping → Stopped lifecycle as its
// workers.
//
// All public methods are safe for concurrent use.
type Simulator struct {
	cfg      Config
	bus      types.BusPublisher
	producer types.ReadingProducer
	logger   types.Logger
	metrics  types.MetricsCollector
	hooks    *types.Hooks

	edgeRange types.Range
	gateways  []*types.Gateway
	workers   *xsync.Map[string, *worker.Worker]
	presence  *presence.Publisher

	state atomic.Int32

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

// Stats is a point-in-time aggregate over all workers of the instance.
type Stats struct {
	// ActiveWorkers is the number of workers not yet Stopped.
	ActiveWorkers int

	// Iterations is the total number of iterations started.
	Iterations uint64

	// Published is the total number of successful publishes, drains included.
	Published uint64

	// PublishFailures is the total number of failed publish attempts.
	PublishFailures uint64

	// Buffered is the current number of payloads waiting in retry buffers.
	Buffered int

	// Evictions is the total number of payloads lost to full buffers.
	Evictions uint64
}

// New creates a simulator instance for its slice of the edge space.
//
// Missing configuration fields are defaulted, the configuration is
// validated, and the gateway fleet is built eagerly so construction errors
// surface before Start. A zero Seed is replaced with a time-derived one,
// making each run unique; set a non-zero Seed for reproducible fleets.
//
// Parameters:
//   - cfg: Simulator configuration; see Config field docs
//   - bus: Message bus client shared by all workers, must not be nil
//   - opts: Optional dependencies (logger, metrics, hooks, producer, presence)
//
// Returns:
//   - *Simulator: Configured simulator in StateCreated
//   - error: A configuration sentinel error; check with IsConfigError
func New(cfg Config, bus types.BusPublisher, opts ...Option) (*Simulator, error) {
	if bus == nil {
		return nil, types.ErrBusClientRequired
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &simulatorOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logger.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}
	if options.hooks == nil {
		nop := hooks.NewNop()
		options.hooks = &nop
	}
	if options.producer == nil {
		options.producer = sensors.NewProducer()
	}

	cfg.ValidateWithWarnings(options.logger)

	edgeRange, err := partition.Calculate(cfg.TotalEdges, cfg.InstanceID, cfg.TotalInstances)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	gateways, err := registry.Build(registry.Config{
		Range:               edgeRange,
		Districts:           cfg.Districts,
		SensorsPerGateway:   cfg.SensorsPerGateway,
		SamplingIntervalMin: cfg.SamplingIntervalMin,
		SamplingIntervalMax: cfg.SamplingIntervalMax,
		Seed:                seed,
	})
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:       cfg,
		bus:       bus,
		producer:  options.producer,
		logger:    options.logger,
		metrics:   options.metrics,
		hooks:     options.hooks,
		edgeRange: edgeRange,
		gateways:  gateways,
		workers:   xsync.NewMap[string, *worker.Worker](),
	}
	s.state.Store(int32(types.StateCreated))

	if options.presenceKV != nil {
		s.presence = presence.New(options.presenceKV, presence.Info{
			InstanceID:     cfg.InstanceID,
			TotalInstances: cfg.TotalInstances,
			Range:          edgeRange,
			GatewayCount:   len(gateways),
			Version:        types.GatewayVersion,
		}, cfg.Presence.Interval, options.logger, options.metrics)
	}

	s.metrics.RecordFleetSize(len(gateways))
	s.logger.Info("simulator created",
		"instance_id", cfg.InstanceID,
		"total_instances", cfg.TotalInstances,
		"range", edgeRange.String(),
		"gateways", len(gateways),
	)

	return s, nil
}

// Start claims the instance's presence entry and launches one worker per
// gateway.
//
// Workers run until Stop is called; cancelling the Start context only
// bounds the presence claim, not the worker lifetime.
//
// Parameters:
//   - ctx: Context bounding startup operations
//
// Returns:
//   - error: ErrAlreadyStarted on a second Start, ErrInstanceConflict when
//     the instance ID is held by a live process, or a presence claim failure
func (s *Simulator) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return types.ErrAlreadyStarted
	}

	if s.presence != nil {
		if err := s.presence.Claim(ctx); err != nil {
			return err
		}
		if err := s.presence.Start(ctx); err != nil {
			return fmt.Errorf("start presence refresh: %w", err)
		}
	}

	// Workers live on their own context so only Stop (not the Start caller)
	// ends the run.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	workerCfg := worker.Config{
		Topic:          s.cfg.Topic,
		PublishTimeout: s.cfg.PublishTimeout,
		BufferCapacity: s.cfg.BufferCapacity,
		DrainEvery:     s.cfg.DrainEvery,
	}

	for _, gw := range s.gateways {
		w := worker.New(worker.Options{
			Gateway:  gw,
			Config:   workerCfg,
			Bus:      s.bus,
			Producer: s.producer,
			Logger:   s.logger,
			Metrics:  s.metrics,
			Hooks:    s.hooks,
		})
		s.workers.Store(gw.ID, w)

		if err := w.Start(runCtx); err != nil {
			// Start only fails on double-start, which cannot happen for a
			// freshly created worker.
			s.logger.Error("worker start failed", "gateway_id", gw.ID, "error", err)
		}
	}

	s.started = true
	s.transition(types.StateRunning)
	s.metrics.RecordActiveWorkers(len(s.gateways))

	s.logger.Info("simulator started",
		"instance_id", s.cfg.InstanceID,
		"workers", len(s.gateways),
	)

	return nil
}

// Stop shuts the instance down in bounded time.
//
// The worker context is cancelled, then each worker is joined with the
// configured JoinTimeout budget; workers exceeding it are abandoned with a
// warning so one stuck publish cannot hang shutdown. The presence entry is
// released last so the instance ID frees immediately.
//
// Parameters:
//   - ctx: Context bounding the whole shutdown; its deadline caps all joins
//
// Returns:
//   - error: ErrNotStarted when the simulator is not running
func (s *Simulator) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.ErrNotStarted
	}

	s.transition(types.StateStopping)
	s.cancel()

	stragglers := 0
	s.workers.Range(func(gatewayID string, w *worker.Worker) bool {
		waitCtx, cancel := context.WithTimeout(ctx, s.cfg.JoinTimeout)
		err := w.Wait(waitCtx)
		cancel()

		if err != nil {
			stragglers++
			s.logger.Warn("worker did not stop within join budget, abandoning",
				"gateway_id", gatewayID,
				"join_timeout", s.cfg.JoinTimeout,
				"error", err,
			)
		}

		return true
	})

	if s.presence != nil {
		if err := s.presence.Stop(); err != nil {
			s.logger.Warn("presence release failed", "error", err)
		}
	}

	s.started = false
	s.transition(types.StateStopped)
	s.metrics.RecordActiveWorkers(0)

	s.logger.Info("simulator stopped",
		"instance_id", s.cfg.InstanceID,
		"stragglers", stragglers,
	)

	return nil
}

// State returns the simulator lifecycle state.
func (s *Simulator) State() types.State {
	return types.State(s.state.Load())
}

// Range returns the inclusive edge-index range this instance owns.
func (s *Simulator) Range() types.Range {
	return s.edgeRange
}

// GatewayCount returns the number of gateways built for this instance.
func (s *Simulator) GatewayCount() int {
	return len(s.gateways)
}

// Gateways returns the instance's gateways in increasing edge-index order.
// The returned slice is shared; callers must not modify it.
func (s *Simulator) Gateways() []*types.Gateway {
	return s.gateways
}

// Stats aggregates current counters across all workers.
func (s *Simulator) Stats() Stats {
	var stats Stats
	s.workers.Range(func(_ string, w *worker.Worker) bool {
		if w.State() != types.StateStopped {
			stats.ActiveWorkers++
		}
		stats.Iterations += w.Iterations()
		stats.Published += w.Published()
		stats.PublishFailures += w.PublishFailures()
		stats.Buffered += w.BufferLen()
		stats.Evictions += w.Evictions()

		return true
	})

	return stats
}

// transition moves the simulator state forward and notifies hooks. The
// gateway ID is empty for simulator-level transitions.
func (s *Simulator) transition(to types.State) {
	from := types.State(s.state.Swap(int32(to)))
	if from == to {
		return
	}

	s.metrics.RecordStateTransition(from, to)

	if s.hooks.OnStateChanged != nil {
		go func() {
			if err := s.hooks.OnStateChanged(context.Background(), "", from, to); err != nil {
				s.logger.Warn("state change hook failed", "error", err)
			}
		}()
	}
}
