package fetcher

import (
	"sync"
	"time"
)

// RateLimiter enforces a minimum spacing between any two outbound calls,
// process-wide. It is a single-slot throttle keyed on the last request
// timestamp, not a token bucket: every call, regardless of kind, waits
// until at least the configured interval has passed since the previous
// one.
//
// The clock and sleep functions are injectable so tests can drive time.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter creates a limiter with the given minimum interval.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the minimum spacing since the previous call has
// elapsed, then stamps the current time as the new last-request time.
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.last.IsZero() {
		elapsed := rl.now().Sub(rl.last)
		if wait := rl.interval - elapsed; wait > 0 {
			rl.sleep(wait)
		}
	}
	rl.last = rl.now()
}
