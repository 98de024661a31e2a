// Package ratelimit implements per-key token-bucket rate limiting.
// The API middleware keys buckets by client IP to shield the auth
// endpoints from brute forcing.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out an independent token bucket per key.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps requests per second with
// the given burst per key.
func New(rps float64, burst int) *KeyedRateLimiter {
	rl := &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}
	go rl.run()
	return rl
}

// Allow reports whether a request under key may proceed right now.
func (rl *KeyedRateLimiter) Allow(key string) bool {
	return rl.bucket(key).Allow()
}

// Wait blocks until a request under key may proceed or ctx is done.
func (rl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return rl.bucket(key).Wait(ctx)
}

func (rl *KeyedRateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.RLock()
	b, ok := rl.limiters[key]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok = rl.limiters[key]; ok {
		return b
	}
	b = rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[key] = b
	return b
}

// Stop terminates the background goroutine.
func (rl *KeyedRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// run idles until Stop. Buckets are never evicted: with one bucket per
// client IP on a single-household server the map stays small, and
// rate.Limiter exposes no last-access time to evict on.
func (rl *KeyedRateLimiter) run() {
	<-rl.done
}
