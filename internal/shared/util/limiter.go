package util

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces file processing so a large scan cannot saturate the disk
// or starve the watcher.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter returns a token bucket limiter admitting r files per second
// with burst b.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), b),
	}
}

// Wait blocks until n tokens are available or ctx is done.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	return l.inner.WaitN(ctx, n)
}
