package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_DeniesOverMax(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(time.Minute, 5)

	for i := 0; i < 5; i++ {
		d := limiter.Allow("10.0.0.1")
		require.True(t, d.Allowed, "request %d should be admitted", i+1)
		require.Equal(t, 5, d.Limit)
		require.Equal(t, 5-(i+1), d.Remaining)
	}

	d := limiter.Allow("10.0.0.1")
	require.False(t, d.Allowed, "6th request in the window must be denied")
	require.Zero(t, d.Remaining)
	require.True(t, d.ResetAt.After(time.Now()))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(time.Minute, 1)

	require.True(t, limiter.Allow("a").Allowed)
	require.False(t, limiter.Allow("a").Allowed)
	require.True(t, limiter.Allow("b").Allowed)
}

func TestLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(50*time.Millisecond, 2)

	require.True(t, limiter.Allow("k").Allowed)
	require.True(t, limiter.Allow("k").Allowed)
	require.False(t, limiter.Allow("k").Allowed)

	time.Sleep(60 * time.Millisecond)

	d := limiter.Allow("k")
	require.True(t, d.Allowed, "a fresh window starts a new bucket")
	require.Equal(t, 1, d.Limit-d.Remaining, "counter resets to 1")
}

func TestLimiter_SweepEvictsStale(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(10*time.Millisecond, 5)
	limiter.Allow("stale")
	require.Equal(t, 1, limiter.Len())

	limiter.sweep(time.Now().Add(time.Second))
	require.Zero(t, limiter.Len())
}

func TestLimiter_ConcurrentSameKey(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(time.Minute, 100)

	var wg sync.WaitGroup
	allowed := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- limiter.Allow("shared").Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	require.Equal(t, 100, count, "exactly max requests admitted under contention")
}
