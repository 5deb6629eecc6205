// Package handlers provides the HTTP endpoints of the route API.
//
//	GET  /api/v1/health            200 text/html "health"
//	GET  /api/v1/navi?id=<route>   cached route (200) or 404
//	POST /api/v1/navi              protobuf RoutePlanClientParameter body
//	POST /api/v1/navijson          JSON RoutePlanClientParameter body
//
// Route responses are JSON with the route id repeated in the X-Route-ID
// header:
//
//	{"id": "r-42", "payload": "..."}
//
// Failures use the error body from the types package; any other method on a
// route returns 405. Handlers depend on the RouteService interface so they
// can be tested without an engine.
package handlers
