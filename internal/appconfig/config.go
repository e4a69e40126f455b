// Package appconfig loads the daemon's YAML configuration and applies
// environment overrides for containerized deployments.
package appconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	citysim "github.com/Ago95Dev/SA-ADR"
	"github.com/Ago95Dev/SA-ADR/types"
)

// Environment variables overriding file configuration. Instance identity is
// typically injected per replica by the orchestrator while the rest of the
// config is shared.
const (
	EnvInstanceID     = "INSTANCE_ID"
	EnvTotalInstances = "TOTAL_INSTANCES"
	EnvNATSURL        = "NATS_URL"
)

// NATSConfig configures the connection to the message broker.
type NATSConfig struct {
	// URL is the NATS server URL. Ignored when Embedded is true.
	URL string `yaml:"url"`

	// Embedded starts an in-process NATS server instead of connecting to an
	// external one. Useful for demos and single-binary deployments.
	Embedded bool `yaml:"embedded"`

	// StoreDir is the embedded server's JetStream storage directory; empty
	// means in-memory only.
	StoreDir string `yaml:"storeDir"`

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration `yaml:"connectTimeout"`

	// StreamName overrides the default JetStream stream name.
	StreamName string `yaml:"streamName"`

	// MemoryStorage uses memory storage for the payload stream.
	MemoryStorage bool `yaml:"memoryStorage"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled serves /metrics and /health when true.
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address, e.g. ":9090".
	Addr string `yaml:"addr"`
}

// LoggingConfig configures the slog-based logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// Config is the daemon's full configuration file.
type Config struct {
	// Simulator is the fleet configuration passed to citysim.New.
	Simulator citysim.Config `yaml:"simulator"`

	// NATS configures the broker connection.
	NATS NATSConfig `yaml:"nats"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging configures log level and format.
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the daemon configuration used when no file is given.
func Default() Config {
	return Config{
		Simulator: citysim.DefaultConfig(),
		NATS: NATSConfig{
			URL:            "nats://127.0.0.1:4222",
			ConnectTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration file at path, fills defaults, and applies
// environment overrides. An empty path loads defaults plus environment.
//
// Parameters:
//   - path: YAML file path, or "" for defaults
//
// Returns:
//   - Config: Loaded configuration, not yet validated
//   - error: Read, parse, or override parse errors
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse config file %s: %v", types.ErrInvalidConfig, path, err)
		}
	}

	citysim.SetDefaults(&cfg.Simulator)

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables where set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvInstanceID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", types.ErrInvalidConfig, EnvInstanceID, v)
		}
		cfg.Simulator.InstanceID = id
	}

	if v := os.Getenv(EnvTotalInstances); v != "" {
		total, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", types.ErrInvalidConfig, EnvTotalInstances, v)
		}
		cfg.Simulator.TotalInstances = total
	}

	if v := os.Getenv(EnvNATSURL); v != "" {
		cfg.NATS.URL = v
	}

	return nil
}

// SlogLevel converts the configured level string to a slog.Level.
//
// Returns:
//   - slog.Level: Parsed level
//   - error: types.ErrInvalidConfig for an unknown level name
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	switch c.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown log level %q", types.ErrInvalidConfig, c.Level)
	}
}
