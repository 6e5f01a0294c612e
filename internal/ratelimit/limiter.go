// Package ratelimit provides fixed-window request admission keyed by caller.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter tracks request counts per key within a recurring window. Safe for
// concurrent use; the read-modify-write on a bucket is atomic per key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	window  time.Duration
	max     int
}

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// NewLimiter creates a limiter admitting max requests per key per window.
func NewLimiter(window time.Duration, max int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		window:  window,
		max:     max,
	}
}

// Allow records one request for key and decides whether it is admitted.
func (l *Limiter) Allow(key string) Decision {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || b.resetAt.Before(now) {
		b = &bucket{count: 1, resetAt: now.Add(l.window)}
		l.buckets[key] = b
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max - 1, ResetAt: b.resetAt}
	}

	if b.count >= l.max {
		return Decision{Allowed: false, Limit: l.max, Remaining: 0, ResetAt: b.resetAt}
	}

	b.count++
	return Decision{Allowed: true, Limit: l.max, Remaining: l.max - b.count, ResetAt: b.resetAt}
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Run evicts stale buckets at the given interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(time.Now())
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.resetAt.Before(now) {
			delete(l.buckets, key)
		}
	}
}
