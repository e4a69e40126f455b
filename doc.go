// Package citysim simulates a fleet of smart-city edge gateways publishing
// sensor data to NATS JetStream.
//
// A fixed edge-ID space is split evenly across cooperating simulator
// instances; each instance deterministically builds the gateways for its
// slice and runs one goroutine per gateway. Every gateway aggregates its
// configured sensors (speed, weather, camera) into one JSON payload per
// iteration and publishes it under the gateway ID as partition key, so
// per-gateway message order is preserved end to end.
//
// Publish failures divert payloads into a per-gateway bounded retry buffer;
// every tenth iteration the worker drains the buffer in FIFO order, halting
// at the first failure so nothing is lost inside a drain. Shutdown is
// coordinated and bounded: workers finish their in-flight iteration, and
// stragglers are abandoned with a warning after a configurable join budget.
//
// Basic usage:
//
//	cfg := citysim.DefaultConfig()
//	cfg.InstanceID = 0
//	cfg.TotalInstances = 3
//
//	client, err := bus.New(ctx, nc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sim, err := citysim.New(cfg, client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := sim.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer sim.Stop(context.Background())
//
// Instances announce themselves in a NATS KV bucket so duplicate instance
// IDs fail fast; pass a KV bucket via WithPresence to enable it.
package citysim
