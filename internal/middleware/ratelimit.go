package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/metrics"
	"github.com/templui/macrotrack/internal/ratelimit"
	"github.com/templui/macrotrack/internal/respond"
)

// RateLimit rejects requests over the limit for operation and client IP. It
// runs before authentication and validation.
func RateLimit(limiter ratelimit.Limiter, operation string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if !limiter.Allow(r.Context(), operation+":"+ip) {
				slog.Warn("rate limit exceeded",
					"operation", operation,
					"ip", ip,
					"path", r.URL.Path,
				)
				metrics.RateLimited(operation)
				respond.Error(w, r, apperror.RateLimited())
				return
			}

			next(w, r)
		}
	}
}

// getClientIP extracts real client IP from request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
