package stress_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	citysim "github.com/Ago95Dev/SA-ADR"
	"github.com/Ago95Dev/SA-ADR/types"
)

// countingBus is a minimal concurrent-safe BusPublisher for scale tests.
type countingBus struct {
	published atomic.Uint64
}

func (b *countingBus) Publish(context.Context, string, string, []byte) error {
	b.published.Add(1)

	return nil
}

func (b *countingBus) Close() error { return nil }

func stressConfig(totalEdges int) citysim.Config {
	cfg := citysim.TestConfig()
	cfg.TotalEdges = totalEdges
	cfg.Districts = []types.District{
		{
			ID:        "stress-district",
			Name:      "Stress District",
			EdgeRange: types.Range{Start: 0, End: totalEdges - 1},
			Center:    types.Location{Latitude: 42.35, Longitude: 13.40},
		},
	}
	cfg.SamplingIntervalMin = 10 * time.Millisecond
	cfg.SamplingIntervalMax = 30 * time.Millisecond
	cfg.JoinTimeout = 5 * time.Second

	return cfg
}

// TestThousandWorkerFleet starts a 1000-gateway instance and verifies every
// worker runs and the whole fleet stops within the shutdown budget.
func TestThousandWorkerFleet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	t.Parallel()

	const totalEdges = 1000

	bus := &countingBus{}
	sim, err := citysim.New(stressConfig(totalEdges), bus)
	require.NoError(t, err)
	require.Equal(t, totalEdges, sim.GatewayCount())

	ctx := context.Background()
	require.NoError(t, sim.Start(ctx))

	require.Eventually(t, func() bool {
		return bus.published.Load() >= totalEdges
	}, 30*time.Second, 50*time.Millisecond, "every gateway publishes at least once")

	stats := sim.Stats()
	require.Equal(t, totalEdges, stats.ActiveWorkers)

	start := time.Now()
	require.NoError(t, sim.Stop(ctx))
	require.Less(t, time.Since(start), 10*time.Second, "bounded shutdown at fleet scale")

	require.Zero(t, sim.Stats().ActiveWorkers)
}

// TestRepeatedInstanceCycles creates, runs, and stops instances in quick
// succession to shake out lifecycle leaks.
func TestRepeatedInstanceCycles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	t.Parallel()

	const cycles = 10

	bus := &countingBus{}
	ctx := context.Background()

	for range cycles {
		sim, err := citysim.New(stressConfig(50), bus)
		require.NoError(t, err)

		require.NoError(t, sim.Start(ctx))

		require.Eventually(t, func() bool {
			return sim.Stats().Iterations > 0
		}, 10*time.Second, 10*time.Millisecond)

		require.NoError(t, sim.Stop(ctx))
		require.Equal(t, citysim.StateStopped, sim.State())
	}
}

// TestConcurrentStatsReads hammers the stats aggregation while workers run.
func TestConcurrentStatsReads(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	t.Parallel()

	bus := &countingBus{}
	sim, err := citysim.New(stressConfig(100), bus)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sim.Start(ctx))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = sim.Stats()
					_ = sim.State()
				}
			}
		}()
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)
	wg.Wait()

	require.NoError(t, sim.Stop(ctx))
}
