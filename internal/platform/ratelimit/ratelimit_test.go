// Copyright (c) 2026 TaskHive. All rights reserved.

package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests drive the limiter's notion of time deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(permits int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
	limiter := New(permits, window)
	limiter.now = clock.Now
	return limiter, clock
}

func TestLimiter_AdmitsExactlyPermitLimitPerWindow(t *testing.T) {
	limiter, _ := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		admitted, _ := limiter.Allow("10.0.0.1")
		require.True(t, admitted, "request %d should be admitted", i+1)
	}

	admitted, retryAfter := limiter.Allow("10.0.0.1")
	assert.False(t, admitted)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestLimiter_WindowResetRestoresAdmission(t *testing.T) {
	limiter, clock := newTestLimiter(2, time.Minute)

	limiter.Allow("client")
	limiter.Allow("client")

	admitted, _ := limiter.Allow("client")
	require.False(t, admitted)

	// One nanosecond short of the boundary: still rejected.
	clock.Advance(time.Minute - time.Nanosecond)
	admitted, _ = limiter.Allow("client")
	assert.False(t, admitted)

	// Exactly at windowStart + window the counter resets.
	clock.Advance(time.Nanosecond)
	admitted, _ = limiter.Allow("client")
	assert.True(t, admitted)
}

func TestLimiter_RetryAfterShrinksAsWindowElapses(t *testing.T) {
	limiter, clock := newTestLimiter(1, time.Minute)

	limiter.Allow("client")

	_, retryAfter := limiter.Allow("client")
	assert.Equal(t, time.Minute, retryAfter)

	clock.Advance(45 * time.Second)
	_, retryAfter = limiter.Allow("client")
	assert.Equal(t, 15*time.Second, retryAfter)
}

func TestLimiter_PartitionsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	admitted, _ := limiter.Allow("alice")
	require.True(t, admitted)

	admitted, _ = limiter.Allow("alice")
	require.False(t, admitted)

	// A different client is unaffected by alice's exhausted window.
	admitted, _ = limiter.Allow("bob")
	assert.True(t, admitted)
}

func TestLimiter_ConcurrentChecksNeverExceedPermitLimit(t *testing.T) {
	const (
		permits    = 50
		goroutines = 32
		perWorker  = 25
	)

	limiter, _ := newTestLimiter(permits, time.Hour)

	var admittedCount int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := int64(0)
			for j := 0; j < perWorker; j++ {
				if ok, _ := limiter.Allow("shared-client"); ok {
					local++
				}
			}
			mu.Lock()
			admittedCount += local
			mu.Unlock()
		}()
	}
	wg.Wait()

	// 800 concurrent checks against a 50-permit window: exactly 50 pass.
	assert.Equal(t, int64(permits), admittedCount)
}

func TestLimiter_EvictStaleDropsIdlePartitions(t *testing.T) {
	limiter, clock := newTestLimiter(1, time.Minute)

	limiter.Allow("idle-client")
	clock.Advance(3 * time.Minute)
	limiter.evictStale()

	s := limiter.shardFor("idle-client")
	s.mu.Lock()
	_, found := s.partitions["idle-client"]
	s.mu.Unlock()
	assert.False(t, found)
}
