package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"naviroute/gateway/pkg/config"
	"naviroute/gateway/pkg/proxy"
	"naviroute/gateway/pkg/proxy/types"
)

// RateLimitMiddleware applies a token bucket shared by all clients.
// Requests over the limit get 429 with a Retry-After hint; the engine queue
// is never reached for them.
//
//	handler = RateLimitMiddleware(&cfg.Server.RateLimit)(handler)
func RateLimitMiddleware(cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		retryAfter := "1"
		if cfg.RequestsPerSecond > 0 && cfg.RequestsPerSecond < 1 {
			retryAfter = strconv.Itoa(int(1/cfg.RequestsPerSecond) + 1)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				slog.WarnContext(r.Context(), "rate limit exceeded",
					"path", r.URL.Path,
					"limit_rps", cfg.RequestsPerSecond,
				)
				w.Header().Set("Retry-After", retryAfter)
				proxy.WriteErrorResponse(w, types.NewErrorResponse("too many requests", types.ErrorTypeRateLimitExceeded, "", ""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
