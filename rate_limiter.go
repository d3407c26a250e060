// rate_limiter.go
// ----------------
// This file defines the RateLimiter type, which stores the rate limit information
// observed on the most recent response. It never sleeps or retries; it only answers
// whether a request could proceed now and how long the caller should wait otherwise.
//
// Responsibilities:
// - Storing the last NormalizedRateLimitInfo and the time it was observed.
// - Checking if requests can proceed based on Remaining and RetryAfterSeconds.
// - Calculating the delay before the next allowed request if the limit is exhausted.
package shapewaysbridge

import (
	"math"
	"sync"
	"time"

	"github.com/opengovern/shapeways-bridge/internal"
)

type RateLimiter struct {
	mu         sync.Mutex
	info       *NormalizedRateLimitInfo
	observedAt time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// UpdateRateLimits replaces the stored info with the one from a fresh response.
func (r *RateLimiter) UpdateRateLimits(info NormalizedRateLimitInfo, observedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.info = &info
	r.observedAt = observedAt
}

// canProceed returns false if the quota is exhausted and the retry window hasn't passed yet.
func (r *RateLimiter) canProceed(now time.Time) bool {
	return r.delayBeforeNextRequest(now) == 0
}

// delayBeforeNextRequest calculates how long to wait before making another request
// if the rate limit is currently exceeded.
func (r *RateLimiter) delayBeforeNextRequest(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := r.info
	if info == nil {
		// No known limits, assume proceed
		return 0
	}
	exhausted := info.IsRateLimited || (info.Remaining != nil && *info.Remaining <= 0)
	if !exhausted || info.RetryAfterSeconds == nil {
		return 0
	}

	resetAt := internal.ResetAtMs(r.observedAt, *info.RetryAfterSeconds)
	if !internal.IsInFuture(resetAt, now) {
		return 0
	}
	ms := resetAt - now.UnixMilli()
	if ms > maxDelayMs {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// maxDelayMs is the largest millisecond count a time.Duration can hold.
const maxDelayMs = int64(math.MaxInt64 / int64(time.Millisecond))

// GetRateLimitInfo returns a copy of the last observed rate limit info, or nil.
func (r *RateLimiter) GetRateLimitInfo() *NormalizedRateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.info == nil {
		return nil
	}
	copyInfo := *r.info
	return &copyInfo
}
