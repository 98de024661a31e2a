package api

import (
	"time"

	"github.com/shelfmark/shelfmark-server/internal/ratelimit"
)

// RateLimiter is the per-IP limiter guarding the auth routes.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter allows ratePerInterval requests per interval with the
// given burst, expressed to the limiter as requests per second.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}
