package integrations

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter provides per-host rate limiting using a token bucket per host.
// Public explorers throttle aggressively, so every client shares one limiter.
type RateLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.RWMutex
	rateLimit  rate.Limit
	burstLimit int
}

// NewRateLimiter creates a rate limiter with the given requests per second
// and burst size. A non-positive rate disables limiting.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  limit,
		burstLimit: max(burst, 1),
	}
}

// Allow reports whether a request to host may proceed now.
func (r *RateLimiter) Allow(host string) bool {
	return r.getLimiter(host).Allow()
}

// Wait blocks until a request to host is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, host string) error {
	return r.getLimiter(host).Wait(ctx)
}

func (r *RateLimiter) getLimiter(host string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[host]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, exists = r.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(r.rateLimit, r.burstLimit)
	r.limiters[host] = limiter
	return limiter
}
