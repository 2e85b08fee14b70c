package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces batch dispatch so large corpora do not saturate the disk
// or, when the section extractor is enabled, an upstream API. A zero rate
// disables pacing entirely.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a dispatch limiter. docsPerSecond <= 0 means no limit.
func NewLimiter(docsPerSecond float64, burst int) *Limiter {
	if docsPerSecond <= 0 {
		return &Limiter{}
	}
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(docsPerSecond), burst),
	}
}

// Wait blocks until the next dispatch slot, or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a dispatch slot is available right now.
func (l *Limiter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
