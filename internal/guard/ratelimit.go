// Package guard holds pre-transaction request guards. Guards reject requests
// before any unit of work starts, so a rejection has zero side effects.
package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/boxoffice/platform/internal/domain"
)

// RateLimiter bounds how many reservation attempts a single caller may start
// per window. It tracks hit timestamps per key over a sliding window, so a
// burst that filled the window clears gradually rather than all at once.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

// NewRateLimiter creates a rate limiter with the given limit per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

// Check records a hit for the key if it is within limits and reports the
// outcome.
func (rl *RateLimiter) Check(_ context.Context, key string) domain.GuardResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	// Hits are appended in order, so everything before the first
	// still-valid timestamp has expired.
	hits := rl.hits[key]
	expired := 0
	for expired < len(hits) && !hits[expired].After(cutoff) {
		expired++
	}
	hits = hits[expired:]

	if len(hits) >= rl.limit {
		rl.hits[key] = hits
		return domain.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("rate limit exceeded: %d/%s", rl.limit, rl.window),
			Guard:   "rate_limiter",
		}
	}

	rl.hits[key] = append(hits, now)
	return domain.GuardResult{Allowed: true}
}
