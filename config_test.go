package citysim

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ago95Dev/SA-ADR/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 3459, cfg.TotalEdges)
	require.Equal(t, "city-gateway-data", cfg.Topic)
	require.Equal(t, 1000, cfg.BufferCapacity)
	require.Equal(t, 10, cfg.DrainEvery)
	require.Equal(t, 10*time.Second, cfg.PublishTimeout)
	require.Equal(t, map[types.SensorType]int{
		types.SensorSpeed:   2,
		types.SensorWeather: 1,
		types.SensorCamera:  2,
	}, cfg.SensorsPerGateway)
}

func TestTestConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := TestConfig()
	require.NoError(t, cfg.Validate())
	require.NotZero(t, cfg.Seed, "test fleets must be deterministic")
}

func TestSetDefaultsFillsMissingFields(t *testing.T) {
	t.Parallel()

	var cfg Config
	SetDefaults(&cfg)

	require.Equal(t, 1, cfg.TotalInstances)
	require.Equal(t, 3459, cfg.TotalEdges)
	require.NotEmpty(t, cfg.Districts)
	require.NotEmpty(t, cfg.SensorsPerGateway)
	require.Equal(t, 2500*time.Millisecond, cfg.SamplingIntervalMin)
	require.Equal(t, 4500*time.Millisecond, cfg.SamplingIntervalMax)
	require.Equal(t, "citysim_instances", cfg.Presence.Bucket)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := Config{
		InstanceID:     2,
		TotalInstances: 5,
		TotalEdges:     100,
		Topic:          "custom-topic",
		Seed:           42,
	}
	SetDefaults(&cfg)

	require.Equal(t, 2, cfg.InstanceID)
	require.Equal(t, 5, cfg.TotalInstances)
	require.Equal(t, 100, cfg.TotalEdges)
	require.Equal(t, "custom-topic", cfg.Topic)
	require.Equal(t, uint64(42), cfg.Seed)
}

func TestValidateRejectsBadIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "zero total instances",
			mutate:  func(c *Config) { c.TotalInstances = -1 },
			wantErr: types.ErrInvalidInstanceCount,
		},
		{
			name:    "instance ID negative",
			mutate:  func(c *Config) { c.InstanceID = -1 },
			wantErr: types.ErrInvalidInstanceID,
		},
		{
			name:    "instance ID beyond total",
			mutate:  func(c *Config) { c.InstanceID = 1; c.TotalInstances = 1 },
			wantErr: types.ErrInvalidInstanceID,
		},
		{
			name:    "negative edge count",
			mutate:  func(c *Config) { c.TotalEdges = -5 },
			wantErr: types.ErrInvalidEdgeCount,
		},
		{
			name:    "no districts",
			mutate:  func(c *Config) { c.Districts = nil },
			wantErr: types.ErrNoDistricts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, tt.wantErr)
			require.True(t, IsConfigError(err))
		})
	}
}

func TestValidateRejectsBadTuning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "sensor count above 26",
			mutate: func(c *Config) { c.SensorsPerGateway[types.SensorSpeed] = 27 },
		},
		{
			name: "all sensor counts zero",
			mutate: func(c *Config) {
				c.SensorsPerGateway = map[types.SensorType]int{types.SensorSpeed: 0}
			},
		},
		{
			name:   "sampling interval min not positive",
			mutate: func(c *Config) { c.SamplingIntervalMin = 0; c.SamplingIntervalMax = time.Second },
		},
		{
			name:   "sampling interval inverted",
			mutate: func(c *Config) { c.SamplingIntervalMin = 5 * time.Second; c.SamplingIntervalMax = time.Second },
		},
		{
			name:   "empty topic",
			mutate: func(c *Config) { c.Topic = "" },
		},
		{
			name:   "zero buffer capacity",
			mutate: func(c *Config) { c.BufferCapacity = -1 },
		},
		{
			name:   "zero drain cadence",
			mutate: func(c *Config) { c.DrainEvery = -1 },
		},
		{
			name:   "presence TTL below 2x interval",
			mutate: func(c *Config) { c.Presence.Interval = 10 * time.Second; c.Presence.TTL = 15 * time.Second },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			// Copy the map so parallel subtests don't share it.
			sensorCounts := make(map[types.SensorType]int, len(cfg.SensorsPerGateway))
			for k, v := range cfg.SensorsPerGateway {
				sensorCounts[k] = v
			}
			cfg.SensorsPerGateway = sensorCounts
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, types.ErrInvalidConfig)
		})
	}
}

func TestValidateWithWarningsFlagsGapsAndOverlaps(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TotalEdges = 100
	cfg.Districts = []types.District{
		{ID: "a", EdgeRange: types.Range{Start: 0, End: 40}, Center: types.Location{Latitude: 42.35, Longitude: 13.40}},
		{ID: "b", EdgeRange: types.Range{Start: 30, End: 60}, Center: types.Location{Latitude: 42.36, Longitude: 13.41}},
	}

	log := &recordingLogger{}
	cfg.ValidateWithWarnings(log)

	require.True(t, log.contains("overlap"), "overlapping ranges must warn")
	require.True(t, log.contains("cover"), "uncovered edges must warn")
}

// recordingLogger captures warning messages for assertions.
type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}

func (l *recordingLogger) contains(substr string) bool {
	for _, w := range l.warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}

	return false
}
