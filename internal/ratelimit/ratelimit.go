// Package ratelimit enforces a minimum interval between requests to the
// external source, shared by every worker in the pool.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the default minimum gap between source requests.
const DefaultInterval = 2 * time.Second

// Limiter grants at most one request per configured interval across all
// concurrent callers. It cannot fail, only delay; Wait returns early only
// when the context is cancelled.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter with the given minimum interval between grants.
// Non-positive intervals fall back to DefaultInterval.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks the caller until at least the configured interval has elapsed
// since the previous grant. Safe for concurrent use; the token bucket holds
// a single token, so there is exactly one grant per interval.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
