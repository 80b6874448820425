package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillPeriod time.Duration // Period after which bucket is refilled
	lastRefill   time.Time     // Last time the bucket was refilled
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			// Small sleep to prevent busy waiting
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Reset resets the token bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill adds tokens based on elapsed time
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	if elapsed >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// FixedInterval paces callers to at most one request per interval.
// It backs the unconditional per-item delay between reel downloads.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	sleep    func(time.Duration)
	mu       sync.Mutex
}

// NewFixedInterval creates a fixed-interval pacer. A zero interval
// disables pacing entirely.
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{
		interval: interval,
		sleep:    time.Sleep,
	}
}

// Allow reports whether the interval has elapsed since the last request
func (fi *FixedInterval) Allow() bool {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	now := time.Now()
	if fi.last.IsZero() || now.Sub(fi.last) >= fi.interval {
		fi.last = now
		return true
	}

	return false
}

// Wait blocks until the full interval has elapsed, then records the request
func (fi *FixedInterval) Wait() {
	fi.mu.Lock()
	var remaining time.Duration
	if !fi.last.IsZero() {
		remaining = fi.interval - time.Since(fi.last)
	}
	sleep := fi.sleep
	fi.mu.Unlock()

	if remaining > 0 {
		sleep(remaining)
	}

	fi.mu.Lock()
	fi.last = time.Now()
	fi.mu.Unlock()
}

// Pause sleeps for the full interval unconditionally and records the request.
// This is the per-item throttle: one pause per processed video post.
func (fi *FixedInterval) Pause() {
	fi.mu.Lock()
	interval := fi.interval
	sleep := fi.sleep
	fi.mu.Unlock()

	if interval > 0 {
		sleep(interval)
	}

	fi.mu.Lock()
	fi.last = time.Now()
	fi.mu.Unlock()
}

// Reset clears the pacer state
func (fi *FixedInterval) Reset() {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	fi.last = time.Time{}
}
