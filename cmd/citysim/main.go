// Command citysim runs one simulator instance of the smart-city gateway
// fleet.
//
// The instance's slice of the edge space comes from configuration; identity
// is typically injected per replica via INSTANCE_ID and TOTAL_INSTANCES.
// With --embedded the binary starts its own NATS server, so a single
// process can run the full pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"

	citysim "github.com/Ago95Dev/SA-ADR"
	"github.com/Ago95Dev/SA-ADR/bus"
	"github.com/Ago95Dev/SA-ADR/internal/appconfig"
	"github.com/Ago95Dev/SA-ADR/internal/kvutil"
	"github.com/Ago95Dev/SA-ADR/internal/logging"
	"github.com/Ago95Dev/SA-ADR/internal/metrics"
	"github.com/Ago95Dev/SA-ADR/internal/natsutil"
	"github.com/Ago95Dev/SA-ADR/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "citysim: %v\n", err)
		if types.IsConfigError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", os.Getenv("CITYSIM_CONFIG"), "path to YAML configuration file")
		embedded   = flag.Bool("embedded", false, "run an in-process NATS server instead of connecting")
		seed       = flag.Uint64("seed", 0, "override fleet seed (0 keeps the configured one)")
	)
	flag.Parse()

	cfg, err := appconfig.Load(*configPath)
	if err != nil {
		return err
	}
	if *embedded {
		cfg.NATS.Embedded = true
	}
	if *seed != 0 {
		cfg.Simulator.Seed = *seed
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}

	var logger types.Logger
	if cfg.Logging.Format == "json" {
		logger = logging.NewSlogJSON(os.Stderr, level)
	} else {
		logger = logging.NewSlogText(os.Stderr, level)
	}

	if err := cfg.Simulator.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Broker: embedded server or external connection.
	natsURL := cfg.NATS.URL
	if cfg.NATS.Embedded {
		ns, serr := natsutil.StartEmbeddedServer(cfg.NATS.StoreDir)
		if serr != nil {
			return fmt.Errorf("start embedded NATS: %w", serr)
		}
		defer ns.Shutdown()
		natsURL = ns.ClientURL()
		logger.Info("embedded NATS server started", "url", natsURL)
	}

	nc, err := nats.Connect(natsURL,
		nats.Timeout(cfg.NATS.ConnectTimeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", natsURL, err)
	}
	defer nc.Close()

	busOpts := []bus.Option{}
	if cfg.NATS.StreamName != "" {
		busOpts = append(busOpts, bus.WithStreamName(cfg.NATS.StreamName))
	}
	if cfg.Simulator.Topic != "" {
		busOpts = append(busOpts, bus.WithTopics(cfg.Simulator.Topic))
	}
	if cfg.NATS.MemoryStorage {
		busOpts = append(busOpts, bus.WithMemoryStorage())
	}

	client, err := bus.New(ctx, nc, busOpts...)
	if err != nil {
		return fmt.Errorf("create bus client: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("bus close failed", "error", cerr)
		}
	}()

	// Metrics endpoint.
	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(registry, "citysim")

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, registry, logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
	}

	// Presence bucket so duplicate instance IDs fail fast.
	kv, err := presenceBucket(ctx, nc, cfg)
	if err != nil {
		return err
	}

	sim, err := citysim.New(cfg.Simulator, client,
		citysim.WithLogger(logger),
		citysim.WithMetrics(collector),
		citysim.WithPresence(kv),
	)
	if err != nil {
		return err
	}

	if err := sim.Start(ctx); err != nil {
		return fmt.Errorf("start simulator: %w", err)
	}

	logger.Info("simulator running",
		"instance_id", cfg.Simulator.InstanceID,
		"total_instances", cfg.Simulator.TotalInstances,
		"range", sim.Range().String(),
		"gateways", sim.GatewayCount(),
	)

	// Block until SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	var shutdownErr error
	if err := sim.Stop(shutdownCtx); err != nil && !errors.Is(err, types.ErrNotStarted) {
		shutdownErr = fmt.Errorf("stop simulator: %w", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	stats := sim.Stats()
	logger.Info("shutdown complete",
		"published", stats.Published,
		"publish_failures", stats.PublishFailures,
		"buffered", stats.Buffered,
		"evictions", stats.Evictions,
	)

	return shutdownErr
}

// presenceBucket creates or opens the instance presence KV bucket.
func presenceBucket(ctx context.Context, nc *nats.Conn, cfg appconfig.Config) (jetstream.KeyValue, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("init JetStream: %w", err)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, cfg.Simulator.Presence.Bucket, cfg.Simulator.Presence.TTL)
	if err != nil {
		return nil, fmt.Errorf("ensure presence bucket: %w", err)
	}

	return kv, nil
}
