package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limits configures one action's bucket.
type Limits struct {
	PerSecond float64
	Burst     int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per account and action.
type RateLimiter struct {
	defaults Limits
	actions  map[string]Limits
	buckets  map[string]*bucket
	mutex    sync.Mutex
	now      func() time.Time
}

func NewRateLimiter(defaults Limits) *RateLimiter {
	return &RateLimiter{
		defaults: defaults,
		actions:  make(map[string]Limits),
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// SetLimits overrides the bucket shape for action. Existing buckets keep their old shape.
func (rl *RateLimiter) SetLimits(action string, l Limits) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.actions[action] = l
}

// Allow consumes a token for userID's action. When denied it returns how long until one is available.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		l, custom := rl.actions[action]
		if !custom {
			l = rl.defaults
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.PerSecond), l.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Cleanup removes buckets not used for idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-idle)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-ctx.Done():
				return
			}
		}
	}()
}
