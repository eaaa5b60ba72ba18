// Package ratelimit implements the admission controller that gates all
// public read endpoints: per-client, per-endpoint-category token buckets
// with interval-boundary refill and bounded bucket storage.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"carmarket_backend/platform/config"
	"carmarket_backend/platform/logger"
)

// Category classifies public endpoints by how expensive they are to serve.
type Category string

const (
	// CategoryDefault covers general public reads.
	CategoryDefault Category = "default"
	// CategorySearch covers listing search.
	CategorySearch Category = "search"
	// CategoryStrict covers similarity and statistics endpoints.
	CategoryStrict Category = "strict"
)

const bucketIdleTimeout = 10 * time.Minute

// Decision is the outcome of one admission attempt.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type bucketKey struct {
	identity string
	category Category
}

type bucket struct {
	tokens      int
	windowStart time.Time
	lastSeen    time.Time
}

// Limiter holds the token buckets. Buckets are created lazily per
// (identity, category) pair; the store is bounded by maxBuckets with
// longest-idle eviction plus a periodic sweep, so a long-running process
// never accumulates one entry per client forever.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[bucketKey]*bucket
	interval   time.Duration
	capacities map[Category]int
	maxBuckets int
	now        func() time.Time
	log        *logger.Logger
}

// New creates a Limiter from configuration.
func New(cfg config.RateLimitConfig, log *logger.Logger) *Limiter {
	return &Limiter{
		buckets:  make(map[bucketKey]*bucket),
		interval: cfg.GetRateLimitInterval(),
		capacities: map[Category]int{
			CategoryDefault: cfg.GetRateLimitCapacityDefault(),
			CategorySearch:  cfg.GetRateLimitCapacitySearch(),
			CategoryStrict:  cfg.GetRateLimitCapacityStrict(),
		},
		maxBuckets: cfg.GetRateLimitMaxBuckets(),
		now:        time.Now,
		log:        log,
	}
}

// Allow attempts to consume one token for the (identity, category) pair.
// The decision always carries the remaining token count and the time until
// the next refill boundary, whether admitted or rejected.
func (l *Limiter) Allow(identity string, category Category) Decision {
	capacity := l.capacities[category]
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	key := bucketKey{identity: identity, category: category}
	b, ok := l.buckets[key]
	if !ok {
		l.evictIfFullLocked()
		b = &bucket{tokens: capacity, windowStart: now}
		l.buckets[key] = b
	}

	// Refill resets to full capacity at interval boundaries, never a
	// proportional trickle. Boundaries stay aligned to the window start so
	// a steady client sees a consistent cadence.
	if elapsed := now.Sub(b.windowStart); elapsed >= l.interval {
		b.tokens = capacity
		b.windowStart = b.windowStart.Add(elapsed.Truncate(l.interval))
	}
	b.lastSeen = now

	retryAfter := b.windowStart.Add(l.interval).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}

	if b.tokens <= 0 {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: retryAfter}
	}

	b.tokens--
	return Decision{Allowed: true, Remaining: b.tokens, RetryAfter: retryAfter}
}

// evictIfFullLocked drops the longest-idle bucket when the store is at
// capacity. Callers hold l.mu.
func (l *Limiter) evictIfFullLocked() {
	if l.maxBuckets <= 0 || len(l.buckets) < l.maxBuckets {
		return
	}

	var oldestKey bucketKey
	var oldestSeen time.Time
	first := true
	for key, b := range l.buckets {
		if first || b.lastSeen.Before(oldestSeen) {
			oldestKey = key
			oldestSeen = b.lastSeen
			first = false
		}
	}
	if !first {
		delete(l.buckets, oldestKey)
	}
}

// StartJanitor sweeps idle buckets on the refill cadence until ctx is done.
func (l *Limiter) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.sweep()
			}
		}
	}()
}

func (l *Limiter) sweep() {
	cutoff := l.now().Add(-bucketIdleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Size reports the current bucket count.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
