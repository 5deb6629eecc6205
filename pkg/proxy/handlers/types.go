package handlers

import (
	"context"

	"naviroute/gateway/pkg/navi"
)

// RouteService is the route pipeline the API handlers call into.
type RouteService interface {
	FindPath(ctx context.Context, raw []byte, format navi.Format) (navi.RouteResult, error)
	GetValue(ctx context.Context, id string) (string, bool)
}
