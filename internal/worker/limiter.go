package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/syllogix/internal/logger"
)

const defaultBurst = 5

// slowWait is the queueing delay worth a debug line
const slowWait = 100 * time.Millisecond

// Limiter holds one token bucket per LLM provider. Buckets are created on
// first use with the default rate; SetRate overrides a single provider.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewLimiter creates a limiter. requestsPerSecond <= 0 means unlimited;
// burst <= 0 falls back to 5.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = defaultBurst
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   toLimit(requestsPerSecond),
		burst:   burst,
	}
}

// Wait blocks until provider has a token or ctx ends
func (l *Limiter) Wait(ctx context.Context, provider string) error {
	b := l.bucket(provider)
	if b.Limit() == rate.Inf {
		return nil
	}

	start := time.Now()
	if err := b.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited >= slowWait {
		logger.FromContext(ctx).Debugw("rate limited",
			logger.FieldProvider, provider,
			logger.FieldDurationMS, waited.Milliseconds(),
		)
	}
	return nil
}

// Allow takes a token for provider if one is available right now
func (l *Limiter) Allow(provider string) bool {
	return l.bucket(provider).Allow()
}

// SetRate overrides the limit for one provider, e.g. a slow local model.
// requestsPerSecond <= 0 lifts the limit; burst <= 0 keeps the default burst.
func (l *Limiter) SetRate(provider string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	l.mu.Lock()
	l.buckets[provider] = rate.NewLimiter(toLimit(requestsPerSecond), burst)
	l.mu.Unlock()
}

func (l *Limiter) bucket(provider string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[provider]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[provider] = b
	}
	return b
}

func toLimit(requestsPerSecond float64) rate.Limit {
	if requestsPerSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(requestsPerSecond)
}
