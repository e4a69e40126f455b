// Package worker implements the per-gateway iteration loop: collect
// readings, assemble a payload, publish, buffer on failure, drain the
// buffer periodically, and wait out the gateway's sampling interval.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ago95Dev/SA-ADR/internal/buffer"
	"github.com/Ago95Dev/SA-ADR/internal/hooks"
	"github.com/Ago95Dev/SA-ADR/internal/logger"
	"github.com/Ago95Dev/SA-ADR/internal/metrics"
	"github.com/Ago95Dev/SA-ADR/internal/natsutil"
	"github.com/Ago95Dev/SA-ADR/types"
)

// Common errors for worker lifecycle operations.
var (
	ErrAlreadyStarted = errors.New("worker already started")
	ErrNotStarted     = errors.New("worker not started")
)

// Config carries the iteration knobs shared across the fleet.
type Config struct {
	// Topic is the logical bus topic payloads publish under.
	Topic string

	// PublishTimeout bounds each publish attempt. The timeout derives from
	// context.Background(), not the lifecycle context, so shutdown never
	// force-interrupts an in-flight publish.
	PublishTimeout time.Duration

	// BufferCapacity is the fixed capacity of the retry buffer.
	BufferCapacity int

	// DrainEvery is the iteration cadence of buffer drains: every
	// DrainEvery-th iteration attempts a drain.
	DrainEvery int
}

// Options bundles the worker's collaborators.
type Options struct {
	Gateway  *types.Gateway
	Config   Config
	Bus      types.BusPublisher
	Producer types.ReadingProducer
	Logger   types.Logger
	Metrics  types.MetricsCollector
	Hooks    *types.Hooks
}

// Worker runs the iteration loop for one gateway.
//
// Each worker exclusively owns its buffer and sampling state; the only
// shared collaborators are the bus client (safe for concurrent use) and the
// cancellation context. A fault inside one iteration is caught and logged,
// never terminating the worker or touching other gateways.
//
// Lifecycle: Created → Running → Stopping → Stopped. The cancellation
// context is observed only at the top of the loop and during the
// inter-iteration wait; an in-flight iteration always completes.
type Worker struct {
	gateway  *types.Gateway
	cfg      Config
	bus      types.BusPublisher
	producer types.ReadingProducer
	logger   types.Logger
	metrics  types.MetricsCollector
	hooks    *types.Hooks

	// buf is touched only by the worker goroutine; bufferLen mirrors its
	// length for concurrent status reads.
	buf       *buffer.Ring[[]byte]
	bufferLen atomic.Int32

	state      atomic.Int32
	iterations atomic.Uint64
	published  atomic.Uint64
	failures   atomic.Uint64
	evictions  atomic.Uint64

	mu      sync.Mutex
	started bool
	ctx     context.Context
	done    chan struct{}
}

// New creates a worker for one gateway. Nil Logger, Metrics or Hooks fall
// back to no-op implementations.
func New(opts Options) *Worker {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}
	if opts.Hooks == nil {
		nop := hooks.NewNop()
		opts.Hooks = &nop
	}

	w := &Worker{
		gateway:  opts.Gateway,
		cfg:      opts.Config,
		bus:      opts.Bus,
		producer: opts.Producer,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		hooks:    opts.Hooks,
		buf:      buffer.New[[]byte](opts.Config.BufferCapacity),
		done:     make(chan struct{}),
	}
	w.state.Store(int32(types.StateCreated))

	return w
}

// Start launches the iteration loop in a background goroutine.
//
// Parameters:
//   - ctx: Lifecycle context; cancelling it stops the worker after its
//     in-flight iteration
//
// Returns:
//   - error: ErrAlreadyStarted if the worker was started before
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.started = true
	w.ctx = ctx

	w.transition(types.StateRunning)
	go w.run(ctx)

	return nil
}

// Wait blocks until the worker reaches Stopped or the context expires.
//
// Returns:
//   - error: ErrNotStarted if Start was never called, or the context error
//     on timeout
func (w *Worker) Wait(ctx context.Context) error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	if !started {
		return ErrNotStarted
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (w *Worker) State() types.State {
	return types.State(w.state.Load())
}

// Gateway returns the gateway this worker runs.
func (w *Worker) Gateway() *types.Gateway {
	return w.gateway
}

// Iterations returns the number of iterations started so far.
func (w *Worker) Iterations() uint64 {
	return w.iterations.Load()
}

// Published returns the number of successful publishes, drains included.
func (w *Worker) Published() uint64 {
	return w.published.Load()
}

// PublishFailures returns the number of failed publish attempts.
func (w *Worker) PublishFailures() uint64 {
	return w.failures.Load()
}

// Evictions returns the number of payloads lost to buffer capacity
// evictions.
func (w *Worker) Evictions() uint64 {
	return w.evictions.Load()
}

// BufferLen returns the current number of buffered payloads.
func (w *Worker) BufferLen() int {
	return int(w.bufferLen.Load())
}

// run is the worker goroutine: iterate, then wait, until cancelled.
func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	w.logger.Info("gateway worker started",
		"gateway_id", w.gateway.ID,
		"district_id", w.gateway.DistrictID,
		"sampling_interval", w.gateway.SamplingInterval,
		"sensors", w.gateway.TotalSensors(),
	)

	for iteration := 1; ; iteration++ {
		select {
		case <-ctx.Done():
			w.transition(types.StateStopping)
			w.stop()
			return
		default:
		}

		w.iterate(ctx, iteration)

		// Interruptible wait: the fixed sampling interval or cancellation,
		// whichever comes first.
		timer := time.NewTimer(w.gateway.SamplingInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.transition(types.StateStopping)
			w.stop()
			return
		case <-timer.C:
		}
	}
}

func (w *Worker) stop() {
	w.transition(types.StateStopped)
	w.logger.Info("gateway worker stopped",
		"gateway_id", w.gateway.ID,
		"iterations", w.iterations.Load(),
		"buffered", w.BufferLen(),
	)
}

// iterate runs one full iteration. Any error or panic inside it is caught,
// logged and counted as a worker fault; the loop proceeds to the wait with
// the same interval.
func (w *Worker) iterate(ctx context.Context, iteration int) {
	defer func() {
		if r := recover(); r != nil {
			w.metrics.RecordWorkerFault()
			w.logger.Error("gateway iteration panicked",
				"gateway_id", w.gateway.ID,
				"iteration", iteration,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	w.iterations.Add(1)
	w.metrics.RecordIteration()

	readings, err := w.collect()
	if err != nil {
		w.metrics.RecordWorkerFault()
		w.logger.Error("reading collection failed, skipping iteration",
			"gateway_id", w.gateway.ID,
			"iteration", iteration,
			"error", err,
		)

		return
	}

	if len(readings) == 0 {
		w.metrics.RecordPublishSkipped()
		w.logger.Debug("no sensor readings, skipping publish",
			"gateway_id", w.gateway.ID,
			"iteration", iteration,
		)
	} else {
		payload := w.assemble(readings)
		data, merr := json.Marshal(payload)
		if merr != nil {
			w.metrics.RecordWorkerFault()
			w.logger.Error("payload marshal failed, skipping iteration",
				"gateway_id", w.gateway.ID,
				"iteration", iteration,
				"error", merr,
			)

			return
		}

		if perr := w.publish(data); perr != nil {
			w.bufferPayload(ctx, data, perr)
		} else {
			w.published.Add(1)
			w.logger.Debug("published gateway payload",
				"gateway_id", w.gateway.ID,
				"iteration", iteration,
				"readings", len(readings),
			)
		}
	}

	if iteration%w.cfg.DrainEvery == 0 {
		w.drain(ctx)
	}
}

// collect requests readings for each configured sensor type in canonical
// order.
func (w *Worker) collect() ([]types.SensorReading, error) {
	var readings []types.SensorReading
	for _, sensorType := range types.SensorTypes() {
		configs := w.gateway.Sensors[sensorType]
		if len(configs) == 0 {
			continue
		}

		batch, err := w.producer.Readings(sensorType, configs, w.gateway)
		if err != nil {
			return nil, fmt.Errorf("%s readings: %w", sensorType, err)
		}
		readings = append(readings, batch...)
	}

	return readings, nil
}

// assemble builds the payload for one iteration.
func (w *Worker) assemble(readings []types.SensorReading) *types.GatewayPayload {
	counts := make(map[string]int, len(types.SensorTypes()))
	for _, sensorType := range types.SensorTypes() {
		counts[string(sensorType)] = w.gateway.SensorCount(sensorType)
	}

	return &types.GatewayPayload{
		GatewayID:   w.gateway.ID,
		DistrictID:  w.gateway.DistrictID,
		Location:    w.gateway.Location,
		LastUpdated: time.Now().UTC(),
		Metadata: types.GatewayMetadata{
			Name:         w.gateway.Name,
			Version:      types.GatewayVersion,
			Firmware:     types.GatewayFirmware,
			SensorCounts: counts,
		},
		Sensors: readings,
	}
}

// publish attempts one bounded publish with the gateway ID as partition key.
func (w *Worker) publish(data []byte) error {
	pubCtx, cancel := context.WithTimeout(context.Background(), w.cfg.PublishTimeout)
	defer cancel()

	start := time.Now()
	err := w.bus.Publish(pubCtx, w.cfg.Topic, w.gateway.ID, data)
	w.metrics.RecordPublish(err == nil, time.Since(start).Seconds())

	return err
}

// bufferPayload diverts a failed payload into the retry buffer, evicting
// the oldest entry when at capacity.
func (w *Worker) bufferPayload(ctx context.Context, data []byte, cause error) {
	w.failures.Add(1)
	w.logger.Error("publish failed, buffering payload",
		"gateway_id", w.gateway.ID,
		"class", natsutil.ClassifyPublishError(cause),
		"error", cause,
	)

	if w.hooks.OnPublishFailure != nil {
		w.runHook(ctx, func(hctx context.Context) error {
			return w.hooks.OnPublishFailure(hctx, w.gateway.ID, cause)
		})
	}

	_, evicted := w.buf.Push(data)
	if evicted {
		w.evictions.Add(1)
		w.metrics.RecordBufferEviction()
		w.logger.Warn("buffer full, evicted oldest payload",
			"gateway_id", w.gateway.ID,
			"capacity", w.buf.Cap(),
		)

		if w.hooks.OnBufferEviction != nil {
			w.runHook(ctx, func(hctx context.Context) error {
				return w.hooks.OnBufferEviction(hctx, w.gateway.ID)
			})
		}
	}

	w.metrics.RecordBufferedMessage()
	w.bufferLen.Store(int32(w.buf.Len()))
}

// drain re-publishes buffered payloads in original FIFO order, halting at
// the first failure. The failed payload and the remainder stay buffered in
// order, so a later drain resumes exactly where this one stopped; nothing
// is lost in a drain.
func (w *Worker) drain(ctx context.Context) {
	if w.buf.Len() == 0 {
		return
	}

	w.logger.Info("draining buffered payloads",
		"gateway_id", w.gateway.ID,
		"buffered", w.buf.Len(),
	)

	recovered := 0
	var failure error
	for {
		data, ok := w.buf.Peek()
		if !ok {
			break
		}

		if err := w.publish(data); err != nil {
			failure = err
			break
		}

		w.buf.PopFront()
		w.published.Add(1)
		recovered++
	}

	remaining := w.buf.Len()
	w.bufferLen.Store(int32(remaining))
	w.metrics.RecordDrainAttempt(recovered, failure != nil)

	if failure != nil {
		w.failures.Add(1)
		w.logger.Warn("drain halted at publish failure, remainder stays buffered",
			"gateway_id", w.gateway.ID,
			"recovered", recovered,
			"remaining", remaining,
			"error", failure,
		)
	} else {
		w.logger.Info("drain complete",
			"gateway_id", w.gateway.ID,
			"recovered", recovered,
		)
	}

	if w.hooks.OnDrainComplete != nil {
		w.runHook(ctx, func(hctx context.Context) error {
			return w.hooks.OnDrainComplete(hctx, w.gateway.ID, recovered, remaining)
		})
	}
}

// transition moves the lifecycle state forward and notifies collaborators.
func (w *Worker) transition(to types.State) {
	from := types.State(w.state.Swap(int32(to)))
	if from == to {
		return
	}

	w.metrics.RecordStateTransition(from, to)

	if w.hooks.OnStateChanged != nil {
		ctx := w.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		w.runHook(ctx, func(hctx context.Context) error {
			return w.hooks.OnStateChanged(hctx, w.gateway.ID, from, to)
		})
	}
}

// runHook invokes a hook asynchronously so a slow hook never blocks the
// iteration loop. Hook errors are logged, never propagated.
func (w *Worker) runHook(ctx context.Context, fn func(context.Context) error) {
	go func() {
		if err := fn(ctx); err != nil {
			w.logger.Warn("lifecycle hook failed",
				"gateway_id", w.gateway.ID,
				"error", err,
			)
		}
	}()
}
