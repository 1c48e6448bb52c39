//go:build unit

package lock_test

import (
	"context"
	"testing"
	"time"

	"booking-reconciler/internal/lock"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*lock.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.NewRedisStore(client), mr
}

func TestRedisStoreAcquireRelease(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	ok, err := store.Acquire(ctx, "locks:jobs:a", "tok-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := mr.Get("locks:jobs:a")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)
	assert.Equal(t, time.Minute, mr.TTL("locks:jobs:a"))

	ok, err = store.Acquire(ctx, "locks:jobs:a", "tok-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second claimant must not overwrite a live lease")

	released, err := store.Release(ctx, "locks:jobs:a", "tok-1")
	require.NoError(t, err)
	assert.True(t, released)
	assert.False(t, mr.Exists("locks:jobs:a"))
}

func TestRedisStoreReleaseWrongToken(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "k", "owner", time.Minute)
	require.NoError(t, err)

	released, err := store.Release(ctx, "k", "intruder")
	require.NoError(t, err)
	assert.False(t, released)
	assert.True(t, mr.Exists("k"))
}

func TestRedisStoreReleaseMissingKey(t *testing.T) {
	store, _ := newRedisStore(t)

	released, err := store.Release(context.Background(), "missing", "tok")
	require.NoError(t, err)
	assert.False(t, released)
}

func TestRedisStoreRefresh(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "k", "owner", time.Second)
	require.NoError(t, err)
	mr.FastForward(800 * time.Millisecond)

	ok, err := store.Refresh(ctx, "k", "owner", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Second, mr.TTL("k"))

	ok, err = store.Refresh(ctx, "k", "intruder", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Second, mr.TTL("k"))
}

func TestRedisStoreLeaseExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "k", "first", time.Second)
	require.NoError(t, err)

	mr.FastForward(900 * time.Millisecond)
	ok, err := store.Acquire(ctx, "k", "second", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "lease cannot be reclaimed before its TTL")

	mr.FastForward(200 * time.Millisecond)
	ok, err = store.Acquire(ctx, "k", "second", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Refresh(ctx, "k", "first", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "expired holder cannot renew another holder's lease")
}

func TestRedisDialer(t *testing.T) {
	mr := miniredis.RunT(t)

	dial, err := lock.RedisDialer("redis://"+mr.Addr(), time.Second)
	require.NoError(t, err)

	store, err := dial(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ok, err := store.Acquire(context.Background(), "k", "tok", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisDialerUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	dial, err := lock.RedisDialer("redis://"+addr, 200*time.Millisecond)
	require.NoError(t, err)

	_, err = dial(context.Background())
	assert.Error(t, err)
}

func TestRedisDialerInvalidURL(t *testing.T) {
	_, err := lock.RedisDialer("not-a-url", time.Second)
	assert.Error(t, err)
}
