package util

import (
	"context"

	"golang.org/x/time/rate"
)

// RescanLimiter caps how often watch mode may re-run the analysis. The burst
// of one keeps rapid save storms from queueing more than a single rescan.
type RescanLimiter struct {
	inner *rate.Limiter
}

// NewRescanLimiter allows at most perSecond rescans per second. Zero or
// negative disables the cap.
func NewRescanLimiter(perSecond float64) *RescanLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &RescanLimiter{inner: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next rescan is allowed or the context ends.
func (l *RescanLimiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
