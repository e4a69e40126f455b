package presence_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ago95Dev/SA-ADR/internal/kvutil"
	"github.com/Ago95Dev/SA-ADR/internal/presence"
	"github.com/Ago95Dev/SA-ADR/simtest"
	"github.com/Ago95Dev/SA-ADR/types"
)

func testInfo(instanceID int) presence.Info {
	return presence.Info{
		InstanceID:     instanceID,
		TotalInstances: 3,
		Range:          types.Range{Start: 0, End: 1152},
		GatewayCount:   1153,
		Version:        types.GatewayVersion,
	}
}

func TestClaimStoresInfo(t *testing.T) {
	t.Parallel()

	_, nc := simtest.StartEmbeddedNATS(t)
	js := simtest.NewJetStream(t, nc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := kvutil.EnsureBucket(ctx, js, "presence_claim", presence.DefaultTTL)
	require.NoError(t, err)

	pub := presence.New(kv, testInfo(0), presence.DefaultInterval, simtest.NewTestLogger(t), nil)
	require.NoError(t, pub.Claim(ctx))

	entry, err := kv.Get(ctx, presence.Key(0))
	require.NoError(t, err)

	var info presence.Info
	require.NoError(t, json.Unmarshal(entry.Value(), &info))
	require.Equal(t, 0, info.InstanceID)
	require.Equal(t, 3, info.TotalInstances)
	require.Equal(t, types.Range{Start: 0, End: 1152}, info.Range)
	require.Equal(t, 1153, info.GatewayCount)
	require.Equal(t, types.GatewayVersion, info.Version)
	require.False(t, info.StartedAt.IsZero())
}

func TestClaimConflictsWithLiveInstance(t *testing.T) {
	t.Parallel()

	_, nc := simtest.StartEmbeddedNATS(t)
	js := simtest.NewJetStream(t, nc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := kvutil.EnsureBucket(ctx, js, "presence_conflict", presence.DefaultTTL)
	require.NoError(t, err)

	first := presence.New(kv, testInfo(1), presence.DefaultInterval, simtest.NewTestLogger(t), nil)
	require.NoError(t, first.Claim(ctx))

	// A second process configured with the same instance ID must fail fast.
	second := presence.New(kv, testInfo(1), presence.DefaultInterval, simtest.NewTestLogger(t), nil)
	err = second.Claim(ctx)
	require.ErrorIs(t, err, types.ErrInstanceConflict)
	require.True(t, types.IsConfigError(err))
}

func TestStopReleasesKeyImmediately(t *testing.T) {
	t.Parallel()

	_, nc := simtest.StartEmbeddedNATS(t)
	js := simtest.NewJetStream(t, nc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := kvutil.EnsureBucket(ctx, js, "presence_release", presence.DefaultTTL)
	require.NoError(t, err)

	pub := presence.New(kv, testInfo(2), presence.DefaultInterval, simtest.NewTestLogger(t), nil)
	require.NoError(t, pub.Claim(ctx))
	require.NoError(t, pub.Start(ctx))
	require.True(t, pub.IsStarted())

	require.NoError(t, pub.Stop())
	require.False(t, pub.IsStarted())

	// The key is gone, so a replacement claims without waiting for the TTL.
	replacement := presence.New(kv, testInfo(2), presence.DefaultInterval, simtest.NewTestLogger(t), nil)
	require.NoError(t, replacement.Claim(ctx))
}

func TestRefreshUpdatesLastSeen(t *testing.T) {
	t.Parallel()

	_, nc := simtest.StartEmbeddedNATS(t)
	js := simtest.NewJetStream(t, nc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := kvutil.EnsureBucket(ctx, js, "presence_refresh", presence.DefaultTTL)
	require.NoError(t, err)

	// Short interval so the test observes a refresh quickly.
	pub := presence.New(kv, testInfo(0), 20*time.Millisecond, simtest.NewTestLogger(t), nil)
	require.NoError(t, pub.Claim(ctx))

	entry, err := kv.Get(ctx, presence.Key(0))
	require.NoError(t, err)
	var initial presence.Info
	require.NoError(t, json.Unmarshal(entry.Value(), &initial))

	require.NoError(t, pub.Start(ctx))
	defer func() { _ = pub.Stop() }()

	require.Eventually(t, func() bool {
		entry, gerr := kv.Get(ctx, presence.Key(0))
		if gerr != nil {
			return false
		}
		var current presence.Info
		if json.Unmarshal(entry.Value(), &current) != nil {
			return false
		}

		return current.LastSeen.After(initial.LastSeen)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStartRequiresClaim(t *testing.T) {
	t.Parallel()

	_, nc := simtest.StartEmbeddedNATS(t)
	js := simtest.NewJetStream(t, nc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := kvutil.EnsureBucket(ctx, js, "presence_unclaimed", presence.DefaultTTL)
	require.NoError(t, err)

	pub := presence.New(kv, testInfo(0), presence.DefaultInterval, simtest.NewTestLogger(t), nil)
	require.ErrorIs(t, pub.Start(ctx), presence.ErrNotClaimed)
	require.ErrorIs(t, pub.Stop(), presence.ErrNotStarted)
}
