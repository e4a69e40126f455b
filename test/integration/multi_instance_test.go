package integration_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	citysim "github.com/Ago95Dev/SA-ADR"
	"github.com/Ago95Dev/SA-ADR/bus"
	"github.com/Ago95Dev/SA-ADR/internal/kvutil"
	"github.com/Ago95Dev/SA-ADR/internal/presence"
	"github.com/Ago95Dev/SA-ADR/simtest"
	"github.com/Ago95Dev/SA-ADR/types"
)

// TestMultiInstancePartitioning runs three instances against one broker and
// verifies the edge space is covered exactly once.
func TestMultiInstancePartitioning(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Parallel()

	const totalInstances = 3

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, nc := simtest.StartEmbeddedNATS(t)

	client, err := bus.New(ctx, nc, bus.WithMemoryStorage(), bus.WithStreamName("CITYSIM_MULTI"))
	require.NoError(t, err)

	cfg := citysim.TestConfig()
	cfg.TotalInstances = totalInstances

	sims := make([]*citysim.Simulator, 0, totalInstances)
	for instance := range totalInstances {
		instanceCfg := cfg
		instanceCfg.InstanceID = instance

		sim, nerr := citysim.New(instanceCfg, client, citysim.WithLogger(simtest.NewTestLogger(t)))
		require.NoError(t, nerr)
		require.NoError(t, sim.Start(ctx))
		sims = append(sims, sim)
	}

	defer func() {
		for _, sim := range sims {
			_ = sim.Stop(context.Background())
		}
	}()

	// Sizes differ by at most one and cover the whole space.
	total := 0
	minSize, maxSize := sims[0].GatewayCount(), sims[0].GatewayCount()
	for _, sim := range sims {
		size := sim.GatewayCount()
		total += size
		minSize = min(minSize, size)
		maxSize = max(maxSize, size)
	}
	require.Equal(t, cfg.TotalEdges, total)
	require.LessOrEqual(t, maxSize-minSize, 1)

	// Every instance's gateways publish onto the shared stream.
	for _, sim := range sims {
		require.Eventually(t, func() bool {
			return sim.Stats().Published >= uint64(sim.GatewayCount())
		}, 30*time.Second, 50*time.Millisecond)
	}

	for _, sim := range sims {
		require.NoError(t, sim.Stop(ctx))
	}

	js := simtest.NewJetStream(t, nc)
	consumer, err := js.CreateOrUpdateConsumer(ctx, "CITYSIM_MULTI", jetstream.ConsumerConfig{
		AckPolicy: jetstream.AckExplicitPolicy,
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for {
		msg, nerr := consumer.Next(jetstream.FetchMaxWait(2 * time.Second))
		if nerr != nil {
			break
		}

		var payload types.GatewayPayload
		require.NoError(t, json.Unmarshal(msg.Data(), &payload))
		seen[payload.GatewayID] = true
		require.NoError(t, msg.Ack())
	}

	require.Len(t, seen, cfg.TotalEdges, "all gateways across all instances published")
}

// TestPresenceConflictAcrossProcesses verifies that a second simulator with
// the same instance ID cannot start while the first holds the claim, and can
// start once the first releases it.
func TestPresenceConflictAcrossProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, nc := simtest.StartEmbeddedNATS(t)
	js := simtest.NewJetStream(t, nc)

	client, err := bus.New(ctx, nc, bus.WithMemoryStorage(), bus.WithStreamName("CITYSIM_PRESENCE"))
	require.NoError(t, err)

	cfg := citysim.TestConfig()
	cfg.Presence.Interval = 200 * time.Millisecond
	cfg.Presence.TTL = 600 * time.Millisecond

	kv, err := kvutil.EnsureBucket(ctx, js, cfg.Presence.Bucket, cfg.Presence.TTL)
	require.NoError(t, err)

	first, err := citysim.New(cfg, client, citysim.WithPresence(kv))
	require.NoError(t, err)
	require.NoError(t, first.Start(ctx))

	second, err := citysim.New(cfg, client, citysim.WithPresence(kv))
	require.NoError(t, err)
	require.ErrorIs(t, second.Start(ctx), citysim.ErrInstanceConflict)

	// The claim is visible with the instance's fleet descriptor.
	entry, err := kv.Get(ctx, presence.Key(cfg.InstanceID))
	require.NoError(t, err)

	var info presence.Info
	require.NoError(t, json.Unmarshal(entry.Value(), &info))
	require.Equal(t, first.GatewayCount(), info.GatewayCount)
	require.Equal(t, first.Range(), info.Range)

	// Releasing the claim lets the replacement start immediately.
	require.NoError(t, first.Stop(ctx))
	require.NoError(t, second.Start(ctx))
	require.NoError(t, second.Stop(ctx))
}
