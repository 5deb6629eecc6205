// Package proxy contains the HTTP plumbing shared by the route API.
//
// The package is split the same way the server is layered:
//
//   - handlers: the route API endpoints (/api/v1/navi, /api/v1/navijson, /api/v1/health)
//   - middleware: cross-cutting concerns (request id, logging, recovery, CORS,
//     timeouts, basic auth, gzip, rate limiting, metrics)
//   - types: JSON request and response bodies
//
// The root package reads request bodies with a size limit, maps pipeline
// errors to HTTP errors and writes JSON responses:
//
//	body, err := proxy.ReadBody(r, cfg.Server.MaxBodyBytes)
//	if err != nil {
//	    proxy.WriteErrorResponse(w, proxy.HandleError(err))
//	    return
//	}
//
// # Error mapping
//
//   - *RequestError: 400, or 413 for oversized bodies
//   - *navi.PoiResolutionError: 500 poi_error
//   - *navi.TranslationError: 500 translation_error
//   - *navi.EngineError: 500 engine_error
//   - engine queue full, pool stopped or engine not initialized: 503
//   - context.DeadlineExceeded: 504
//   - anything else: 500 server_error
package proxy
