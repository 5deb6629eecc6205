package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds every request with context.WithTimeout.
//
// The handler keeps ownership of the response writer: it sees the expired
// context through its POI lookups and engine wait, gets
// context.DeadlineExceeded back and writes the 504 itself. A nonpositive
// timeout disables the middleware.
//
//	handler = TimeoutMiddleware(30 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
