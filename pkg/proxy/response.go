package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"naviroute/gateway/pkg/navi"
	"naviroute/gateway/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response with the given status code.
// It sets the Content-Type header and encodes the data.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes an error response with the status code of its type.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	statusCode := errResp.Error.HTTPStatusCode()
	return WriteJSONResponse(w, statusCode, errResp)
}

// WriteRouteResponse writes a 200 route response and sets X-Route-ID.
func WriteRouteResponse(w http.ResponseWriter, result navi.RouteResult) error {
	w.Header().Set(RouteIDHeader, result.ID)
	return WriteJSONResponse(w, http.StatusOK, types.NewRouteResponse(result))
}
