// Package navi defines the route planning data model shared by the gateway:
// client requests, resolved POIs, normalized engine requests and results,
// together with their wire codecs and the gateway's error taxonomy.
//
// # Wire formats
//
// Clients send RoutePlanClientParameter either as a protobuf message
// (DecodeClientRequest) or as an equivalent JSON object (DecodeClientJSON).
// The routing engine consumes RoutePlanServerParameter, produced by
// EncodeServerParameter, in which each endpoint is a oneof of a resolved
// PoiInfo or a raw GeoPoint.
//
// # Errors
//
//   - TranslationError: the payload could not be parsed or was incomplete
//   - PoiResolutionError: the POI search service failed; also matches
//     TranslationError through errors.As
//   - EngineError: the routing engine returned a nonzero status
//   - CacheError: a cache connection or command failed
package navi
