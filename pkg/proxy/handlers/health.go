package handlers

import (
	"net/http"

	"naviroute/gateway/pkg/proxy"
	"naviroute/gateway/pkg/proxy/types"
)

// HealthHandler answers GET /api/v1/health with a plain "health" page.
// Dependency checks live on the telemetry readiness path.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		w.Write([]byte("health"))
	}
}
