package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// extractIP returns the client IP from forwarding headers.
// X-Forwarded-For may contain a chain; the first entry is the client.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}

// checkAuthRateLimit applies the per-IP limit on credential endpoints.
func (s *Server) checkAuthRateLimit(ip string) error {
	if ip == "" {
		ip = "unknown"
	}
	if !s.authRateLimiter.Allow(ip) {
		s.logger.Warn("Auth rate limit exceeded", "ip", ip)
		return huma.Error429TooManyRequests("Too many authentication attempts. Please try again later.")
	}
	return nil
}
