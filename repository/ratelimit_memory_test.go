package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryRateLimitStore_IncrementWindow(t *testing.T) {
	store, err := NewMemoryRateLimitStore("")
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	w, err := store.Increment(ctx, "1.2.3.4", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count)
	assert.Equal(t, now.Add(time.Minute), w.ResetAt)

	w, _ = store.Increment(ctx, "1.2.3.4", time.Minute, now.Add(30*time.Second))
	assert.Equal(t, 2, w.Count)
	assert.Equal(t, now.Add(time.Minute), w.ResetAt, "reset time is fixed by the first hit")

	// exactly at the reset instant the window is still open
	w, _ = store.Increment(ctx, "1.2.3.4", time.Minute, now.Add(time.Minute))
	assert.Equal(t, 3, w.Count)

	later := now.Add(time.Minute + time.Millisecond)
	w, _ = store.Increment(ctx, "1.2.3.4", time.Minute, later)
	assert.Equal(t, 1, w.Count)
	assert.Equal(t, later.Add(time.Minute), w.ResetAt)
}

func TestMemoryRateLimitStore_KeysAreIndependent(t *testing.T) {
	store, err := NewMemoryRateLimitStore("")
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, _ = store.Increment(ctx, "a", time.Minute, now)
	}
	w, _ := store.Increment(ctx, "b", time.Minute, now)
	assert.Equal(t, 1, w.Count)

	got, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Count)

	require.NoError(t, store.Reset(ctx, "a"))
	_, ok, _ = store.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryRateLimitStore_ConcurrentIncrements(t *testing.T) {
	store, err := NewMemoryRateLimitStore("")
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx, "shared", time.Minute, now)
		}()
	}
	wg.Wait()

	w, ok, _ := store.Get(ctx, "shared")
	require.True(t, ok)
	assert.Equal(t, 100, w.Count)
}

func TestMemoryRateLimitStore_Sweep(t *testing.T) {
	store, err := NewMemoryRateLimitStore("")
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, _ = store.Increment(ctx, "old", time.Minute, now)
	_, _ = store.Increment(ctx, "fresh", time.Minute, now.Add(50*time.Second))
	store.now = func() time.Time { return now.Add(90 * time.Second) }

	store.Sweep()

	assert.Equal(t, 1, store.Len())
	_, ok, _ := store.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryRateLimitStore_StopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	store, err := NewMemoryRateLimitStore("@every 1h")
	require.NoError(t, err)
	store.Stop()
}

func TestMemoryRateLimitStore_BadSweepSpec(t *testing.T) {
	_, err := NewMemoryRateLimitStore("every now and then")
	assert.Error(t, err)
}
