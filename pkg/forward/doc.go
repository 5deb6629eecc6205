// Package forward implements the "proxy" server backend.
//
// A static Forwarder sends every request to the configured proxy.url,
// optionally overriding the method and the Authorization header. A dynamic
// Forwarder reads the target from each request:
//
//	X-Proxy-URL:           https://tiles.example.com/v1/floor/3   (required)
//	X-Proxy-Method:        GET                                   (required)
//	X-Proxy-Authorization: Bearer abc                            (optional)
//
// Hop-by-hop headers are stripped in both directions, the X-Proxy-* headers
// are not forwarded, and the client address is appended to
// X-Forwarded-For. A missing or invalid target header is answered with 400,
// an unreachable upstream with 502, and an upstream timeout with 504.
package forward
