package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Bucket names used by batch runs
const (
	BucketAnalyze = "analyze"
	BucketLLM     = "llm"
)

// Limiter implements per-bucket rate limiting. A batch run throttles
// document throughput and LLM calls independently.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a default rate shared by all
// buckets until SetBucketRate overrides one
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the bucket allows one more event
func (l *Limiter) Wait(ctx context.Context, bucket string) error {
	return l.getLimiter(bucket).Wait(ctx)
}

// Allow reports whether the bucket allows one more event right now
func (l *Limiter) Allow(bucket string) bool {
	return l.getLimiter(bucket).Allow()
}

func (l *Limiter) getLimiter(bucket string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[bucket]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[bucket]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[bucket] = limiter

	return limiter
}

// SetBucketRate overrides the rate for one bucket
func (l *Limiter) SetBucketRate(bucket string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[bucket] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
