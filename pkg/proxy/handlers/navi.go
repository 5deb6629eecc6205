package handlers

import (
	"log/slog"
	"net/http"

	"naviroute/gateway/pkg/navi"
	"naviroute/gateway/pkg/proxy"
	"naviroute/gateway/pkg/proxy/types"
	"naviroute/gateway/pkg/telemetry/logging"
)

// NaviHandler serves /api/v1/navi and /api/v1/navijson.
//
// GET looks up a cached route by its id. POST computes a new route from a
// request body whose encoding is fixed per handler instance.
type NaviHandler struct {
	service      RouteService
	format       navi.Format
	allowLookup  bool
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewNaviHandler creates the handler for /api/v1/navi: protobuf bodies on
// POST and cached lookups on GET.
func NewNaviHandler(service RouteService, maxBodyBytes int64) *NaviHandler {
	return &NaviHandler{
		service:      service,
		format:       navi.FormatBinary,
		allowLookup:  true,
		maxBodyBytes: maxBodyBytes,
		logger:       slog.Default().With("component", "handlers.navi"),
	}
}

// NewNaviJSONHandler creates the handler for /api/v1/navijson: JSON bodies
// on POST only.
func NewNaviJSONHandler(service RouteService, maxBodyBytes int64) *NaviHandler {
	return &NaviHandler{
		service:      service,
		format:       navi.FormatJSON,
		maxBodyBytes: maxBodyBytes,
		logger:       slog.Default().With("component", "handlers.navijson"),
	}
}

// ServeHTTP implements http.Handler.
func (h *NaviHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost:
		h.handleFindPath(w, r)
	case r.Method == http.MethodGet && h.allowLookup:
		h.handleLookup(w, r)
	default:
		allow := http.MethodPost
		if h.allowLookup {
			allow = "GET, POST"
		}
		w.Header().Set("Allow", allow)
		proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
	}
}

func (h *NaviHandler) handleFindPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := proxy.ReadBody(r, h.maxBodyBytes)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read route request", "error", err)
		proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return
	}

	result, err := h.service.FindPath(ctx, body, h.format)
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return
	}

	if err := proxy.WriteRouteResponse(w, result); err != nil {
		h.logger.ErrorContext(logging.WithRouteID(ctx, result.ID), "failed to write route response", "error", err)
	}
}

func (h *NaviHandler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.URL.Query().Get("id")
	if id == "" {
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
			"missing required query parameter \"id\"", "id", types.CodeMissingField,
		))
		return
	}

	payload, ok := h.service.GetValue(ctx, id)
	if !ok {
		proxy.WriteErrorResponse(w, types.NewNotFoundError("no route with id "+id, types.CodeRouteNotFound))
		return
	}

	if err := proxy.WriteRouteResponse(w, navi.RouteResult{ID: id, Payload: payload}); err != nil {
		h.logger.ErrorContext(logging.WithRouteID(ctx, id), "failed to write route response", "error", err)
	}
}
