package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between calls to one external service
// class. A single shared instance paces all search calls and another paces
// all generation calls; mutation happens only on the sequential row path.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer that allows one call per minInterval. A
// non-positive interval disables pacing.
func NewPacer(minInterval time.Duration) *Pacer {
	if minInterval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, or returns early when the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
