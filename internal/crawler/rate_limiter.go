package crawler

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces the politeness delay between consecutive fetches,
// tracked per normalized domain so parallel seeds throttle independently.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	delay    time.Duration
}

// NewRateLimiter creates a limiter that allows one request per delay
// interval per domain.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		delay:    delay,
	}
}

// Wait blocks until a request to the given URL's domain is permitted,
// or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context, rawURL string) error {
	domain := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		domain = NormalizeDomain(parsed.Hostname())
	}
	return r.limiter(domain).Wait(ctx)
}

// limiter gets or creates the limiter for a domain.
func (r *RateLimiter) limiter(domain string) *rate.Limiter {
	r.mu.RLock()
	limiter, ok := r.limiters[domain]
	r.mu.RUnlock()
	if ok {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another worker may have created it between the locks.
	if limiter, ok := r.limiters[domain]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(r.delay), 1)
	r.limiters[domain] = limiter
	return limiter
}
