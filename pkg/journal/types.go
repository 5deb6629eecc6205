package journal

import (
	"context"
	"time"
)

// Status values recorded for a route computation.
const (
	StatusSuccess          = "success"
	StatusTranslationError = "translation_error"
	StatusPoiError         = "poi_error"
	StatusEngineError      = "engine_error"
	StatusError            = "error"
)

// Entry is the journal record of one route computation.
type Entry struct {
	// Identity
	ID        string `json:"id" csv:"id"`                 // UUID v4
	RequestID string `json:"request_id" csv:"request_id"` // From the request middleware
	RouteID   string `json:"route_id" csv:"route_id"`     // Assigned by the engine, empty on failure

	// Request shape
	Format    string `json:"format" csv:"format"`         // "binary" or "json"
	StartKind string `json:"start_kind" csv:"start_kind"` // "poi", "point" or "none"
	EndKind   string `json:"end_kind" csv:"end_kind"`

	// Outcome
	Status     string `json:"status" csv:"status"`
	EngineCode int32  `json:"engine_code" csv:"engine_code"`
	Cached     bool   `json:"cached" csv:"cached"`
	Error      string `json:"error,omitempty" csv:"error"`

	// Timing
	LatencyMS  int64     `json:"latency_ms" csv:"latency_ms"`
	RecordedAt time.Time `json:"recorded_at" csv:"recorded_at"`
}

// Query defines filter parameters for journal lookups.
type Query struct {
	// Time range
	Since *time.Time `json:"since,omitempty"` // Inclusive
	Until *time.Time `json:"until,omitempty"` // Exclusive

	// Filters
	Status  string `json:"status,omitempty"`
	RouteID string `json:"route_id,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder is "asc" or "desc" by recorded time. Default: desc
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage persists journal entries. Implementations must be safe for
// concurrent use.
type Storage interface {
	Store(ctx context.Context, entry *Entry) error
	Query(ctx context.Context, query *Query) ([]*Entry, error)
	Count(ctx context.Context, query *Query) (int64, error)
	Delete(ctx context.Context, query *Query) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
