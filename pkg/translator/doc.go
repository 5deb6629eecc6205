// Package translator converts inbound route requests into the routing
// engine's normalized form.
//
// Binary (protobuf) and JSON payloads decode to the same
// navi.ClientRouteRequest. Each endpoint is then either taken as a raw point
// (empty POI id) or resolved through the POI search service; both lookups
// run concurrently and the translation only succeeds when both do.
package translator
