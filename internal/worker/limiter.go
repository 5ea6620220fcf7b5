package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles job starts in batch mode. Parsing is CPU-bound, so the
// limiter exists to keep a big batch from starving the host rather than to
// protect a remote service; a zero or negative rate disables it.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing perSecond job starts with the given
// burst. perSecond <= 0 means unlimited.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return &Limiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the next job may start or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a job may start right now without waiting.
func (l *Limiter) Allow() bool {
	if l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
