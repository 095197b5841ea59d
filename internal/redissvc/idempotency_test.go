package redissvc

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdempotencyStore(t *testing.T, store IdempotencyStore) {
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	replay, err := store.Acquire(ctx, key, "body-a")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = store.Acquire(ctx, key, "body-a")
	assert.ErrorIs(t, err, ErrInProgress)
	_, err = store.Acquire(ctx, key, "body-b")
	assert.ErrorIs(t, err, ErrKeyReuse)

	want := Replay{StatusCode: http.StatusOK, Body: []byte(`{"code":"OK"}`)}
	require.NoError(t, store.Complete(ctx, key, "body-a", want))

	replay, err = store.Acquire(ctx, key, "body-a")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, want, *replay)

	released := "test-" + uuid.NewString()
	_, err = store.Acquire(ctx, released, "body-a")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, released))
	replay, err = store.Acquire(ctx, released, "body-a")
	require.NoError(t, err)
	assert.Nil(t, replay, "released key can be acquired again")
}

func TestMemoryIdempotencyStore(t *testing.T) {
	testIdempotencyStore(t, NewMemoryIdempotencyStore(time.Hour, time.Minute))
}

func TestMemoryIdempotencyStoreExpiry(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Acquire(ctx, "k", "a")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "k", "a", Replay{StatusCode: 200}))

	now = now.Add(2 * time.Minute)
	replay, err := store.Acquire(ctx, "k", "b")
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func TestMemoryIdempotencyStorePendingLease(t *testing.T) {
	store := NewMemoryIdempotencyStore(24*time.Hour, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	// The owner never completes nor releases the key.
	_, err := store.Acquire(ctx, "k", "a")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = store.Acquire(ctx, "k", "a")
	assert.ErrorIs(t, err, ErrInProgress, "lease still held")

	now = now.Add(time.Minute)
	replay, err := store.Acquire(ctx, "k", "a")
	require.NoError(t, err)
	assert.Nil(t, replay, "retry owns the key once the lease ran out")

	require.NoError(t, store.Complete(ctx, "k", "a", Replay{StatusCode: http.StatusCreated}))
	now = now.Add(time.Hour)
	replay, err = store.Acquire(ctx, "k", "a")
	require.NoError(t, err)
	require.NotNil(t, replay, "completed keys outlive the lease")
	assert.Equal(t, http.StatusCreated, replay.StatusCode)
}

// Runs against a live redis when REDIS_ADDR is set.
func TestRedisIdempotencyStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rs := NewRedisService(addr)
	t.Cleanup(func() { _ = rs.Close() })
	require.NoError(t, rs.Ping(context.Background()))

	store := NewRedisIdempotencyStore(rs, time.Minute, 10*time.Second)
	testIdempotencyStore(t, store)

	t.Run("release survives a cancelled request", func(t *testing.T) {
		key := "test-" + uuid.NewString()
		_, err := store.Acquire(context.Background(), key, "a")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, store.Release(ctx, key))

		replay, err := store.Acquire(context.Background(), key, "a")
		require.NoError(t, err)
		assert.Nil(t, replay)
	})
}
