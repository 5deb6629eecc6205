package types

import "naviroute/gateway/pkg/navi"

// RouteResponse is the JSON body returned for a computed or cached route.
type RouteResponse struct {
	// ID is the engine-assigned route id, also sent as X-Route-ID.
	ID string `json:"id"`

	// Payload is the serialized path, passed through untouched.
	Payload string `json:"payload"`
}

// NewRouteResponse converts an engine result into a response body.
func NewRouteResponse(result navi.RouteResult) *RouteResponse {
	return &RouteResponse{ID: result.ID, Payload: result.Payload}
}
