package middleware

import (
	"net"
	"net/http"

	"github.com/google/uuid"

	"naviroute/gateway/pkg/telemetry/logging"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLength bounds client supplied ids before they reach logs.
	maxRequestIDLength = 128
)

// RequestIDMiddleware assigns a request ID to each request and adds it to
// the context and response headers. A client supplied X-Request-ID is kept
// when present; otherwise a UUIDv4 is generated.
//
// The caller's address is stored next to it so every log line of the
// request carries both.
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithClientIP(ctx, clientIP(r))

		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
