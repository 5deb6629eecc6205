package proxy

import (
	"context"
	"errors"

	"naviroute/gateway/pkg/engine"
	"naviroute/gateway/pkg/navi"
	"naviroute/gateway/pkg/proxy/types"
)

// HandleError converts a route pipeline error to an API error response.
//
// Translation, POI and engine failures map to 500 with a typed body. An
// overloaded or stopped engine maps to 503 and an expired deadline to 504.
//
//	result, err := svc.FindPath(ctx, body, navi.FormatBinary)
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err))
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	// POI failures also match *navi.TranslationError, so they go first.
	var poiErr *navi.PoiResolutionError
	if errors.As(err, &poiErr) {
		return types.NewErrorResponse(poiErr.Error(), types.ErrorTypePoi, "poi_id", types.CodePoiUnresolved)
	}

	var transErr *navi.TranslationError
	if errors.As(err, &transErr) {
		return types.NewErrorResponse(transErr.Error(), types.ErrorTypeTranslation, transErr.Field, types.CodeInvalidValue)
	}

	var engineErr *navi.EngineError
	if errors.As(err, &engineErr) {
		return types.NewErrorResponse(engineErr.Error(), types.ErrorTypeEngine, "", types.CodeEngineStatus)
	}

	switch {
	case errors.Is(err, engine.ErrQueueFull),
		errors.Is(err, engine.ErrPoolStopped),
		errors.Is(err, engine.ErrPoolNotStarted),
		errors.Is(err, engine.ErrNotInitialized):
		return types.NewServiceUnavailableError("Routing engine is unavailable: " + err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewGatewayTimeoutError("Request deadline exceeded")
	}

	return types.NewServerError("An internal error occurred. Please try again later.")
}
