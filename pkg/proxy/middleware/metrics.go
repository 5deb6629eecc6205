package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives one observation per completed request.
// *metrics.Collector implements it.
type RequestRecorder interface {
	RecordRequest(route, method string, status int, duration time.Duration, responseBytes int)
}

// MetricsMiddleware records status, latency and response size under a fixed
// route label. It wraps a single route at registration time so the label
// is the mux pattern, never the raw URL.
//
//	mux.Handle("/api/v1/navi", MetricsMiddleware(collector, "/api/v1/navi")(naviHandler))
func MetricsMiddleware(recorder RequestRecorder, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			recorder.RecordRequest(route, r.Method, rw.statusCode, time.Since(start), rw.bytes)
		})
	}
}
