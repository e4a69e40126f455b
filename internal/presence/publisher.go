// Package presence announces a live simulator instance in a NATS KV bucket.
//
// Each instance claims the key for its instance ID atomically at startup,
// so two processes configured with the same ID cannot both run, then
// refreshes the entry on a heartbeat interval. The bucket TTL expires the
// entry when an instance dies without cleanup, freeing the ID for a
// replacement process.
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/Ago95Dev/SA-ADR/internal/logger"
	"github.com/Ago95Dev/SA-ADR/internal/metrics"
	"github.com/Ago95Dev/SA-ADR/types"
)

// Defaults for the presence bucket. The TTL is 3x the refresh interval so a
// claim survives two missed heartbeats before expiring.
const (
	DefaultBucket   = "citysim_instances"
	DefaultInterval = 5 * time.Second
	DefaultTTL      = 15 * time.Second
)

// Common errors for presence operations.
var (
	ErrNotClaimed     = errors.New("instance ID not claimed")
	ErrNotStarted     = errors.New("presence publisher not started")
	ErrAlreadyStarted = errors.New("presence publisher already started")
)

// Info is the value stored under an instance's presence key.
type Info struct {
	// InstanceID is this process's instance index.
	InstanceID int `json:"instance_id"`

	// TotalInstances is the configured fleet-wide instance count.
	TotalInstances int `json:"total_instances"`

	// Range is the edge-index range this instance owns.
	Range types.Range `json:"range"`

	// GatewayCount is the number of gateways this instance runs.
	GatewayCount int `json:"gateway_count"`

	// StartedAt is the UTC time the instance claimed its ID.
	StartedAt time.Time `json:"started_at"`

	// LastSeen is the UTC time of the most recent heartbeat refresh.
	LastSeen time.Time `json:"last_seen"`

	// Version is the gateway software version the instance simulates.
	Version string `json:"version"`
}

// Publisher claims an instance ID in NATS KV and keeps the claim alive.
type Publisher struct {
	kv       jetstream.KeyValue
	info     Info
	interval time.Duration
	logger   types.Logger
	metrics  types.MetricsCollector

	mu      sync.Mutex
	claimed bool
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker
}

// Key returns the presence key for an instance ID, e.g. Key(2) == "instance-2".
func Key(instanceID int) string {
	return fmt.Sprintf("instance-%d", instanceID)
}

// New creates a presence publisher. Nil logger or metrics fall back to no-op
// implementations.
//
// Parameters:
//   - kv: JetStream KV bucket for presence entries; its TTL bounds how long a
//     dead instance blocks its ID
//   - info: The instance descriptor to store
//   - interval: Heartbeat refresh interval
//   - log: Logger for claim and refresh events
//   - m: Metrics collector for refresh outcomes
func New(kv jetstream.KeyValue, info Info, interval time.Duration, log types.Logger, m types.MetricsCollector) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Publisher{
		kv:       kv,
		info:     info,
		interval: interval,
		logger:   log,
		metrics:  m,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Claim atomically claims this instance's presence key.
//
// Uses KV Create so exactly one process can hold an instance ID at a time.
// A key left behind by a dead process expires after the bucket TTL; until
// then the claim fails with types.ErrInstanceConflict.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: types.ErrInstanceConflict if another live process holds the ID
func (p *Publisher) Claim(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()
	p.info.StartedAt = now
	p.info.LastSeen = now

	value, err := json.Marshal(p.info)
	if err != nil {
		return fmt.Errorf("marshal presence info: %w", err)
	}

	key := Key(p.info.InstanceID)

	revision, err := p.kv.Create(ctx, key, value)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return fmt.Errorf("presence key %q: %w", key, types.ErrInstanceConflict)
		}

		return fmt.Errorf("claim presence key %q: %w", key, err)
	}

	p.claimed = true
	p.logger.Info("instance presence claimed",
		"instance_id", p.info.InstanceID,
		"key", key,
		"revision", revision,
		"range", p.info.Range.String(),
		"gateways", p.info.GatewayCount,
	)

	return nil
}

// Start begins refreshing the presence entry in the background.
//
// Returns:
//   - error: ErrNotClaimed if Claim did not succeed first, ErrAlreadyStarted
//     if already running
func (p *Publisher) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.claimed {
		return ErrNotClaimed
	}
	if p.started {
		return ErrAlreadyStarted
	}

	p.started = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.ticker = time.NewTicker(p.interval)

	go p.refreshLoop()

	return nil
}

// Stop stops the refresh loop and deletes the presence entry.
//
// The entry is deleted so the instance ID frees immediately instead of
// waiting for the bucket TTL.
//
// Returns:
//   - error: ErrNotStarted if not running, or the delete error
func (p *Publisher) Stop() error {
	p.mu.Lock()

	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}

	p.ticker.Stop()
	close(p.stopCh)
	p.started = false
	p.claimed = false

	p.mu.Unlock()

	<-p.doneCh

	// Bounded background context: shutdown must not hang on a dead broker.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := Key(p.info.InstanceID)
	if err := p.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("stopped but failed to delete presence key %q: %w", key, err)
	}

	p.logger.Info("instance presence released", "instance_id", p.info.InstanceID, "key", key)

	return nil
}

// IsStarted reports whether the refresh loop is running.
func (p *Publisher) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started
}

// refreshLoop is the background goroutine that keeps the claim alive.
func (p *Publisher) refreshLoop() {
	defer close(p.doneCh)

	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := p.refresh(ctx)
			cancel()

			if err != nil {
				p.metrics.RecordPresenceRefresh(false)
				p.logger.Warn("presence refresh failed",
					"instance_id", p.info.InstanceID,
					"error", err,
				)
			} else {
				p.metrics.RecordPresenceRefresh(true)
			}
		}
	}
}

// refresh rewrites the presence entry with a fresh LastSeen timestamp.
func (p *Publisher) refresh(ctx context.Context) error {
	p.mu.Lock()
	p.info.LastSeen = time.Now().UTC()
	value, err := json.Marshal(p.info)
	key := Key(p.info.InstanceID)
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("marshal presence info: %w", err)
	}

	if _, err := p.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("refresh presence key %q: %w", key, err)
	}

	return nil
}
