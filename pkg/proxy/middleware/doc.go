// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server wraps its mux in a fixed order:
//
//	handler = Recovery(Logging(RequestID(CORS(BasicAuth(RateLimit(Gzip(Timeout(mux))))))))
//
// Order (innermost to outermost):
//  1. Timeout: bound the request context
//  2. Gzip: compress responses for clients that accept it
//  3. RateLimit: shared token bucket, 429 when empty
//  4. BasicAuth: HTTP Basic credentials, 401 when wrong
//  5. CORS: Cross-Origin Resource Sharing headers and preflight
//  6. RequestID: generate or propagate X-Request-ID
//  7. Logging: one structured line per request
//  8. Recovery: turn panics into 500 responses
//
// Every layer except Recovery, Logging and RequestID is gated by the server
// configuration and returns the next handler unchanged when disabled.
// MetricsMiddleware is not part of the chain: it wraps each route when the
// route is registered so its label is the route pattern.
//
// # Request ID
//
// RequestIDMiddleware keeps a client supplied X-Request-ID or generates a
// UUID v4:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is stored with logging.WithRequestID, so the logging handler adds
// it to every record written with the request context, including the
// journal entry of a route computation.
//
// # Timeout
//
// TimeoutMiddleware only sets a deadline. Handlers see
// context.DeadlineExceeded from their blocking calls and answer with 504
// themselves, so no two goroutines ever write the same response.
//
// # CORS
//
// CORS configuration is loaded from the server section:
//
//	server:
//	  cors:
//	    enabled: true
//	    allowed_origins: ["https://maps.example.com"]
//	    allowed_methods: ["GET", "POST", "OPTIONS"]
//	    allowed_headers: ["Authorization", "Content-Type"]
//	    max_age: 3600
package middleware
