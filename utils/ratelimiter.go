package utils

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter spaces outgoing requests by a base delay plus random jitter
type RateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	delay    time.Duration
	jitter   time.Duration
}

// NewRateLimiter creates a new RateLimiter with the given delay in milliseconds.
// Each wait adds up to half the delay again as jitter.
func NewRateLimiter(delayMs int) *RateLimiter {
	d := time.Duration(delayMs) * time.Millisecond
	return &RateLimiter{
		delay:  d,
		jitter: d / 2,
	}
}

// Wait blocks until enough time has passed since the last request or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wait := r.delay
	if r.jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(r.jitter)))
	}
	if elapsed := time.Since(r.lastCall); elapsed < wait {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait - elapsed):
		}
	}
	r.lastCall = time.Now()
	return nil
}
