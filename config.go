package citysim

import (
	"fmt"
	"time"

	"github.com/Ago95Dev/SA-ADR/types"
)

// PresenceConfig configures the NATS KV instance presence announcements.
type PresenceConfig struct {
	// Bucket is the KV bucket name instance claims live in.
	Bucket string `yaml:"bucket"`

	// Interval is the heartbeat refresh interval.
	Interval time.Duration `yaml:"interval"`

	// TTL is how long a claim survives without a refresh. A dead instance
	// blocks its ID for at most this long.
	// Recommended: 3x Interval.
	TTL time.Duration `yaml:"ttl"`
}

// Config is the configuration for the Simulator.
//
// All duration fields accept standard Go duration strings like "10s", "2.5s".
type Config struct {
	// InstanceID is this process's instance index, in [0, TotalInstances).
	InstanceID int `yaml:"instanceId"`

	// TotalInstances is the number of simulator processes sharing the edge
	// space. Each edge belongs to exactly one instance.
	TotalInstances int `yaml:"totalInstances"`

	// TotalEdges is the size of the edge-ID space split across instances.
	TotalEdges int `yaml:"totalEdges"`

	// Districts partition the edge index space geographically. A gateway's
	// district is the first district whose edge range contains its index;
	// uncovered indices fall back to the first district.
	Districts []types.District `yaml:"districts"`

	// SensorsPerGateway maps sensor type to the number of sensors each
	// gateway carries. At most 26 per type.
	SensorsPerGateway map[types.SensorType]int `yaml:"sensorsPerGateway"`

	// SamplingIntervalMin and SamplingIntervalMax bound the per-gateway
	// sampling interval, drawn once at fleet construction.
	SamplingIntervalMin time.Duration `yaml:"samplingIntervalMin"`
	SamplingIntervalMax time.Duration `yaml:"samplingIntervalMax"`

	// Topic is the logical bus topic gateway payloads publish under.
	Topic string `yaml:"topic"`

	// PublishTimeout bounds each publish attempt.
	PublishTimeout time.Duration `yaml:"publishTimeout"`

	// BufferCapacity is the per-worker retry buffer capacity. When full, the
	// oldest buffered payload is evicted.
	BufferCapacity int `yaml:"bufferCapacity"`

	// DrainEvery is the drain cadence: every DrainEvery-th iteration of a
	// worker attempts to re-publish its buffered payloads.
	DrainEvery int `yaml:"drainEvery"`

	// JoinTimeout bounds how long Stop waits for each worker to finish its
	// in-flight iteration. Workers exceeding it are abandoned with a warning
	// rather than blocking shutdown.
	JoinTimeout time.Duration `yaml:"joinTimeout"`

	// Seed seeds fleet construction. Zero means derive a seed from the
	// current time; any other value makes the fleet fully deterministic.
	Seed uint64 `yaml:"seed"`

	// Presence configures instance presence announcements.
	Presence PresenceConfig `yaml:"presence"`
}

// DefaultConfig returns a Config with production defaults: a single instance
// owning the full edge space, one district centered on the default city
// center, and the 2 speed + 1 weather + 2 camera sensor complement.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		InstanceID:     0,
		TotalInstances: 1,
		TotalEdges:     3459,
		Districts: []types.District{
			{
				ID:        "city-center",
				Name:      "City Center",
				EdgeRange: types.Range{Start: 0, End: 3458},
				Center:    types.Location{Latitude: 42.35, Longitude: 13.40},
			},
		},
		SensorsPerGateway: map[types.SensorType]int{
			types.SensorSpeed:   2,
			types.SensorWeather: 1,
			types.SensorCamera:  2,
		},
		SamplingIntervalMin: 2500 * time.Millisecond,
		SamplingIntervalMax: 4500 * time.Millisecond,
		Topic:               "city-gateway-data",
		PublishTimeout:      10 * time.Second,
		BufferCapacity:      1000,
		DrainEvery:          10,
		JoinTimeout:         5 * time.Second,
		Presence: PresenceConfig{
			Bucket:   "citysim_instances",
			Interval: 5 * time.Second,
			TTL:      15 * time.Second,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Zero-valued identity fields (InstanceID 0, Seed 0) are legitimate values
// and are left alone; only structurally required fields are defaulted.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.TotalInstances == 0 {
		cfg.TotalInstances = defaults.TotalInstances
	}
	if cfg.TotalEdges == 0 {
		cfg.TotalEdges = defaults.TotalEdges
	}
	if len(cfg.Districts) == 0 {
		cfg.Districts = defaults.Districts
	}
	if len(cfg.SensorsPerGateway) == 0 {
		cfg.SensorsPerGateway = defaults.SensorsPerGateway
	}
	if cfg.SamplingIntervalMin == 0 {
		cfg.SamplingIntervalMin = defaults.SamplingIntervalMin
	}
	if cfg.SamplingIntervalMax == 0 {
		cfg.SamplingIntervalMax = defaults.SamplingIntervalMax
	}
	if cfg.Topic == "" {
		cfg.Topic = defaults.Topic
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = defaults.PublishTimeout
	}
	if cfg.BufferCapacity == 0 {
		cfg.BufferCapacity = defaults.BufferCapacity
	}
	if cfg.DrainEvery == 0 {
		cfg.DrainEvery = defaults.DrainEvery
	}
	if cfg.JoinTimeout == 0 {
		cfg.JoinTimeout = defaults.JoinTimeout
	}
	if cfg.Presence.Bucket == "" {
		cfg.Presence.Bucket = defaults.Presence.Bucket
	}
	if cfg.Presence.Interval == 0 {
		cfg.Presence.Interval = defaults.Presence.Interval
	}
	if cfg.Presence.TTL == 0 {
		cfg.Presence.TTL = defaults.Presence.TTL
	}
}

// Validate checks configuration constraints.
//
// Hard Validation Rules:
//   - TotalInstances > 0
//   - InstanceID in [0, TotalInstances)
//   - TotalEdges >= 0
//   - At least one district
//   - Sensor counts in [0, 26], at least one sensor type positive
//   - 0 < SamplingIntervalMin <= SamplingIntervalMax
//   - PublishTimeout, BufferCapacity, DrainEvery, JoinTimeout positive
//   - Presence TTL >= 2x Interval (allow one missed refresh)
//
// Returns:
//   - error: A configuration sentinel error with explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.TotalInstances <= 0 {
		return fmt.Errorf("%w: got %d", types.ErrInvalidInstanceCount, cfg.TotalInstances)
	}

	if cfg.InstanceID < 0 || cfg.InstanceID >= cfg.TotalInstances {
		return fmt.Errorf("%w: instance %d with %d total instances",
			types.ErrInvalidInstanceID, cfg.InstanceID, cfg.TotalInstances)
	}

	if cfg.TotalEdges < 0 {
		return fmt.Errorf("%w: got %d", types.ErrInvalidEdgeCount, cfg.TotalEdges)
	}

	if len(cfg.Districts) == 0 {
		return types.ErrNoDistricts
	}

	total := 0
	for sensorType, count := range cfg.SensorsPerGateway {
		if count < 0 || count > 26 {
			return fmt.Errorf("%w: %s sensor count %d outside [0, 26]",
				types.ErrInvalidConfig, sensorType, count)
		}
		total += count
	}
	if total == 0 {
		return fmt.Errorf("%w: every gateway needs at least one sensor", types.ErrInvalidConfig)
	}

	if cfg.SamplingIntervalMin <= 0 {
		return fmt.Errorf("%w: SamplingIntervalMin must be positive, got %v",
			types.ErrInvalidConfig, cfg.SamplingIntervalMin)
	}
	if cfg.SamplingIntervalMax < cfg.SamplingIntervalMin {
		return fmt.Errorf("%w: SamplingIntervalMax (%v) below SamplingIntervalMin (%v)",
			types.ErrInvalidConfig, cfg.SamplingIntervalMax, cfg.SamplingIntervalMin)
	}

	if cfg.Topic == "" {
		return fmt.Errorf("%w: Topic must not be empty", types.ErrInvalidConfig)
	}
	if cfg.PublishTimeout <= 0 {
		return fmt.Errorf("%w: PublishTimeout must be positive, got %v",
			types.ErrInvalidConfig, cfg.PublishTimeout)
	}
	if cfg.BufferCapacity <= 0 {
		return fmt.Errorf("%w: BufferCapacity must be positive, got %d",
			types.ErrInvalidConfig, cfg.BufferCapacity)
	}
	if cfg.DrainEvery <= 0 {
		return fmt.Errorf("%w: DrainEvery must be positive, got %d",
			types.ErrInvalidConfig, cfg.DrainEvery)
	}
	if cfg.JoinTimeout <= 0 {
		return fmt.Errorf("%w: JoinTimeout must be positive, got %v",
			types.ErrInvalidConfig, cfg.JoinTimeout)
	}

	if cfg.Presence.TTL < 2*cfg.Presence.Interval {
		return fmt.Errorf("%w: presence TTL (%v) must be >= 2x interval (%v) to allow one missed refresh",
			types.ErrInvalidConfig, cfg.Presence.TTL, cfg.Presence.Interval)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for legal but
// suspicious values: district ranges that overlap or leave edge indices
// uncovered, and a sensor complement heavier than the reference gateway.
//
// Overlaps and gaps are not errors: district lookup takes the first match
// and uncovered indices fall back to the first district.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger types.Logger) {
	covered := 0
	for i, d := range cfg.Districts {
		covered += d.EdgeRange.Size()

		for _, other := range cfg.Districts[i+1:] {
			if d.EdgeRange.Contains(other.EdgeRange.Start) || other.EdgeRange.Contains(d.EdgeRange.Start) {
				logger.Warn("district edge ranges overlap, first match wins",
					"district", d.ID,
					"overlaps", other.ID,
				)
			}
		}
	}

	if covered < cfg.TotalEdges {
		logger.Warn("districts do not cover the full edge space, uncovered edges fall back to the first district",
			"covered", covered,
			"total_edges", cfg.TotalEdges,
			"fallback_district", cfg.Districts[0].ID,
		)
	}

	perGateway := 0
	for _, count := range cfg.SensorsPerGateway {
		perGateway += count
	}
	if perGateway > 10 {
		logger.Warn("heavy sensor complement, payloads will be large",
			"sensors_per_gateway", perGateway,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Sampling intervals and shutdown budgets are 50-100x faster than production
// defaults; the edge space is small and the seed fixed so fleets are tiny
// and deterministic. Use DefaultConfig() for deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.TotalEdges = 10
	cfg.Districts = []types.District{
		{
			ID:        "test-district",
			Name:      "Test District",
			EdgeRange: types.Range{Start: 0, End: 9},
			Center:    types.Location{Latitude: 42.35, Longitude: 13.40},
		},
	}
	cfg.SamplingIntervalMin = 20 * time.Millisecond
	cfg.SamplingIntervalMax = 50 * time.Millisecond
	cfg.PublishTimeout = 2 * time.Second
	cfg.JoinTimeout = 2 * time.Second
	cfg.BufferCapacity = 100
	cfg.Seed = 1

	return cfg
}
