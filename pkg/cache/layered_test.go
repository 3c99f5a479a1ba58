package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayeredCacheServesFromL1(t *testing.T) {
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "sentiment:AAPL", "v1", time.Hour))

	// A write behind L1's back is not seen until L1 expires.
	require.NoError(t, remote.Set(ctx, "sentiment:AAPL", "v2", time.Hour))
	var got string
	require.NoError(t, lc.Get(ctx, "sentiment:AAPL", &got))
	assert.Equal(t, "v1", got)
}

func TestLayeredCacheBypassReadsRemote(t *testing.T) {
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote, WithLayeredBypass("watchlist:"))
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "watchlist:items", "v1", 0))
	require.NoError(t, remote.Set(ctx, "watchlist:items", "v2", 0))

	var got string
	require.NoError(t, lc.Get(ctx, "watchlist:items", &got))
	assert.Equal(t, "v2", got)
}

func TestLayeredCacheFillsL1OnRemoteHit(t *testing.T) {
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, remote.Set(ctx, "k", "remote", time.Hour))

	var got string
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "remote", got)
	assert.Equal(t, 1, lc.local.Len())

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestLayeredCacheLocksUseRemote(t *testing.T) {
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()
	ctx := context.Background()

	ok, err := lc.TryLock(ctx, "watchlist:lock", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = remote.TryLock(ctx, "watchlist:lock", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}
