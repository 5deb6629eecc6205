package middleware

import (
	"context"
	"time"

	"naviroute/gateway/pkg/telemetry/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"
)

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}

// GetStartTime extracts the request start time from the context.
// Returns zero time if not found.
func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}
