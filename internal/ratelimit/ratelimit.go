// Package ratelimit provides a sliding-window rate limiter for outbound calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits at most maxRequests calls within a trailing window.
//
// Timestamps of admitted calls are kept and pruned lazily on each check, so
// an idle limiter holds no timers. Safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	timestamps  []time.Time
	maxRequests int
	window      time.Duration
}

// New creates a limiter allowing maxRequests per window.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		timestamps:  make([]time.Time, 0, maxRequests),
		maxRequests: maxRequests,
		window:      window,
	}
}

// PerSecond creates a limiter allowing n requests per second.
func PerSecond(n int) *Limiter {
	return New(n, time.Second)
}

// TryAcquire attempts to take a slot without waiting. It returns true and
// records the attempt if a slot was free.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	if len(l.timestamps) < l.maxRequests {
		l.timestamps = append(l.timestamps, now)
		return true
	}
	return false
}

// Acquire blocks until a slot is free or the context is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes a slot if one is free; otherwise it returns how long to wait
// for the oldest timestamp to exit the window.
func (l *Limiter) reserve() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	if len(l.timestamps) < l.maxRequests {
		l.timestamps = append(l.timestamps, now)
		return 0, true
	}

	oldest := l.timestamps[0]
	if wait := l.window - now.Sub(oldest); wait > 0 {
		return wait, false
	}
	return time.Millisecond, false
}

// CurrentCount reports how many admitted calls remain inside the window.
func (l *Limiter) CurrentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(time.Now())
	return len(l.timestamps)
}

// prune drops timestamps that have left the window. Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := 0
	for cutoff < len(l.timestamps) && now.Sub(l.timestamps[cutoff]) >= l.window {
		cutoff++
	}
	if cutoff > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[cutoff:]...)
	}
}
