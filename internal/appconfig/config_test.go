package appconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ago95Dev/SA-ADR/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "citysim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Simulator.Validate())
}

func TestLoadParsesFile(t *testing.T) {
	path := writeConfig(t, `
simulator:
  instanceId: 1
  totalInstances: 3
  totalEdges: 300
  publishTimeout: 5s
  samplingIntervalMin: 1s
  samplingIntervalMax: 2s
  districts:
    - district_id: centro-storico
      name: Centro Storico
      edge_range: {start: 0, end: 299}
      center: {latitude: 42.35, longitude: 13.40}
nats:
  url: nats://broker:4222
  memoryStorage: true
metrics:
  enabled: false
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 1, cfg.Simulator.InstanceID)
	require.Equal(t, 3, cfg.Simulator.TotalInstances)
	require.Equal(t, 300, cfg.Simulator.TotalEdges)
	require.Equal(t, 5*time.Second, cfg.Simulator.PublishTimeout)
	require.Equal(t, time.Second, cfg.Simulator.SamplingIntervalMin)
	require.Len(t, cfg.Simulator.Districts, 1)
	require.Equal(t, "centro-storico", cfg.Simulator.Districts[0].ID)
	require.Equal(t, "nats://broker:4222", cfg.NATS.URL)
	require.True(t, cfg.NATS.MemoryStorage)
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields still get production defaults.
	require.Equal(t, "city-gateway-data", cfg.Simulator.Topic)
	require.Equal(t, 1000, cfg.Simulator.BufferCapacity)
	require.NoError(t, cfg.Simulator.Validate())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "simulator: [not a map")

	_, err := Load(path)
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvOverridesIdentity(t *testing.T) {
	t.Setenv(EnvInstanceID, "2")
	t.Setenv(EnvTotalInstances, "5")
	t.Setenv(EnvNATSURL, "nats://override:4222")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 2, cfg.Simulator.InstanceID)
	require.Equal(t, 5, cfg.Simulator.TotalInstances)
	require.Equal(t, "nats://override:4222", cfg.NATS.URL)
}

func TestEnvRejectsNonInteger(t *testing.T) {
	t.Setenv(EnvInstanceID, "two")

	_, err := Load("")
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := LoggingConfig{Level: tt.level}.SlogLevel()
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := LoggingConfig{Level: "verbose"}.SlogLevel()
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}
