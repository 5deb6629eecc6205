package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// RouteIDKey is the context key for engine route IDs.
	RouteIDKey contextKey = "route_id"

	// ClientIPKey is the context key for the caller's address.
	ClientIPKey contextKey = "client_ip"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithRouteID adds a route ID to the context.
func WithRouteID(ctx context.Context, routeID string) context.Context {
	return context.WithValue(ctx, RouteIDKey, routeID)
}

// GetRouteID retrieves the route ID from the context.
func GetRouteID(ctx context.Context) string {
	if routeID, ok := ctx.Value(RouteIDKey).(string); ok {
		return routeID
	}
	return ""
}

// WithClientIP adds the caller's address to the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

// GetClientIP retrieves the caller's address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}

// extractContextFields returns the context's log fields as attributes.
func extractContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	if requestID := GetRequestID(ctx); requestID != "" {
		attrs = append(attrs, slog.String(string(RequestIDKey), requestID))
	}
	if routeID := GetRouteID(ctx); routeID != "" {
		attrs = append(attrs, slog.String(string(RouteIDKey), routeID))
	}
	if ip := GetClientIP(ctx); ip != "" {
		attrs = append(attrs, slog.String(string(ClientIPKey), ip))
	}
	return attrs
}

// contextHandler adds context fields to every record.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := extractContextFields(ctx); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
