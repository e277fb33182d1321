// Copyright (c) 2026 TaskHive. All rights reserved.

/*
Package ratelimit implements a partitioned, fixed-window admission filter.

Each policy (global, sign-in) owns an independent [Limiter]; partitions are
keyed by client identity and created lazily on first sight. A partition
counts admissions inside the current window and resets strictly when the
window elapses, so exactly PermitLimit requests pass per window regardless of
how the traffic is spread inside it.

Scope:

  - Purely local: no cross-instance coordination. Horizontal scale-out
    under-enforces the limit by a factor of the instance count. This is an
    accepted, documented limitation of the in-process design.
  - Process lifetime: partitions are never persisted; a janitor can evict
    idle entries to bound memory.

Concurrency: the partition table is sharded, with one mutex per shard. The
check-and-increment runs entirely under the shard lock, so concurrent
requests from the same client can never race more than PermitLimit
admissions into one window.
*/
package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// shardCount spreads partition keys over independent locks to keep
// contention low under concurrent traffic from many clients.
const shardCount = 16

// janitorInterval is how often idle partitions are evicted.
const janitorInterval = 1 * time.Minute

// partition tracks one client's admissions inside the current fixed window.
type partition struct {
	windowStart time.Time
	count       int
}

// shard is one lock-protected slice of the partition table.
type shard struct {
	mu         sync.Mutex
	partitions map[string]*partition
}

// Limiter is a fixed-window admission filter for a single policy.
type Limiter struct {
	permitLimit int
	window      time.Duration
	shards      [shardCount]*shard

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New creates a [Limiter] admitting permitLimit requests per window for each
// partition key.
func New(permitLimit int, window time.Duration) *Limiter {
	limiter := &Limiter{
		permitLimit: permitLimit,
		window:      window,
		now:         time.Now,
	}
	for i := range limiter.shards {
		limiter.shards[i] = &shard{partitions: make(map[string]*partition)}
	}
	return limiter
}

// Allow runs one admission check for the given partition key.
//
// It reports whether the request is admitted and, on rejection, how long the
// client must wait until the current window resets. The returned duration is
// always within (0, window].
func (limiter *Limiter) Allow(key string) (admitted bool, retryAfter time.Duration) {
	now := limiter.now()
	s := limiter.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.partitions[key]
	if !found {
		// Lazily create the partition with a window starting now.
		p = &partition{windowStart: now}
		s.partitions[key] = p
	}

	// Reset strictly when the window has fully elapsed.
	if !now.Before(p.windowStart.Add(limiter.window)) {
		p.windowStart = now
		p.count = 0
	}

	if p.count < limiter.permitLimit {
		p.count++
		return true, 0
	}

	remaining := p.windowStart.Add(limiter.window).Sub(now)
	if remaining <= 0 {
		// Unreachable given the reset above; keep the contract anyway.
		remaining = limiter.window
	}
	return false, remaining
}

// StartJanitor evicts partitions whose window ended more than one full
// window ago. It runs until ctx is cancelled.
func (limiter *Limiter) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.evictStale()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// evictStale removes partitions that have been idle for a full extra window.
func (limiter *Limiter) evictStale() {
	cutoff := limiter.now().Add(-2 * limiter.window)
	for _, s := range limiter.shards {
		s.mu.Lock()
		for key, p := range s.partitions {
			if p.windowStart.Before(cutoff) {
				delete(s.partitions, key)
			}
		}
		s.mu.Unlock()
	}
}

// shardFor maps a partition key onto its shard via FNV-1a.
func (limiter *Limiter) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return limiter.shards[h.Sum32()%shardCount]
}
