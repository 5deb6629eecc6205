package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"naviroute/gateway/pkg/journal"
	"naviroute/gateway/pkg/navi"
	"naviroute/gateway/pkg/telemetry/logging"
)

// Translator turns a client payload into an engine request.
type Translator interface {
	Translate(ctx context.Context, raw []byte, format navi.Format) (*navi.NormalizedRouteRequest, error)
}

// Engine computes routes from encoded server parameters.
type Engine interface {
	FindPath(ctx context.Context, request []byte) (navi.RouteResult, error)
}

// Cache stores route payloads by route id.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Journal records route computation outcomes.
type Journal interface {
	Record(ctx context.Context, entry *journal.Entry) error
}

// Options holds the optional collaborators of a Service.
type Options struct {
	// Cache, when set, serves GetValue and receives computed routes.
	Cache Cache

	// WriteResults enables writing computed routes to Cache.
	WriteResults bool

	// Journal, when set, receives one entry per FindPath call.
	Journal Journal
}

// Service runs the route pipeline: translate, compute, cache.
type Service struct {
	translator   Translator
	engine       Engine
	cache        Cache
	journal      Journal
	writeResults atomic.Bool
	logger       *slog.Logger
}

// New creates a Service. The engine handle is owned by the caller.
func New(translator Translator, engine Engine, opts Options) *Service {
	s := &Service{
		translator: translator,
		engine:     engine,
		cache:      opts.Cache,
		journal:    opts.Journal,
		logger:     slog.Default().With("component", "service"),
	}
	s.writeResults.Store(opts.WriteResults)
	return s
}

// SetWriteResults toggles cache writes at runtime.
func (s *Service) SetWriteResults(enabled bool) {
	s.writeResults.Store(enabled)
}

// FindPath computes a route for a client payload.
//
// Translation and POI failures are returned before the engine is called.
// A nonzero engine status is returned as *navi.EngineError and nothing is
// cached. A failed cache write is logged and does not fail the call.
func (s *Service) FindPath(ctx context.Context, raw []byte, format navi.Format) (navi.RouteResult, error) {
	start := time.Now()
	entry := &journal.Entry{
		RequestID: logging.GetRequestID(ctx),
		Format:    format.String(),
		StartKind: "none",
		EndKind:   "none",
	}

	result, err := s.findPath(ctx, raw, format, entry)

	entry.LatencyMS = time.Since(start).Milliseconds()
	s.record(ctx, entry, err)

	if err != nil {
		s.logger.WarnContext(ctx, "route computation failed",
			"format", entry.Format,
			"status", entry.Status,
			"error", err,
		)
		return navi.RouteResult{}, err
	}

	s.logger.InfoContext(logging.WithRouteID(ctx, result.ID), "route computed",
		"format", entry.Format,
		"start", entry.StartKind,
		"end", entry.EndKind,
		"payload_bytes", len(result.Payload),
		"cached", entry.Cached,
		"duration_ms", entry.LatencyMS,
	)
	return result, nil
}

func (s *Service) findPath(ctx context.Context, raw []byte, format navi.Format, entry *journal.Entry) (navi.RouteResult, error) {
	req, err := s.translator.Translate(ctx, raw, format)
	if err != nil {
		return navi.RouteResult{}, err
	}
	entry.StartKind = req.Start.Kind()
	entry.EndKind = req.End.Kind()

	encoded, err := navi.EncodeServerParameter(req)
	if err != nil {
		return navi.RouteResult{}, &navi.TranslationError{Reason: "encode server parameter", Err: err}
	}

	result, err := s.engine.FindPath(ctx, encoded)
	if err != nil {
		return navi.RouteResult{}, err
	}
	entry.RouteID = result.ID

	if s.cache != nil && s.writeResults.Load() {
		if err := s.cache.Set(ctx, result.ID, result.Payload); err != nil {
			s.logger.ErrorContext(ctx, "failed to cache route",
				"route_id", result.ID,
				"error", err,
			)
		} else {
			entry.Cached = true
		}
	}

	return result, nil
}

// GetValue returns a previously computed route payload. Without a cache
// every lookup misses.
func (s *Service) GetValue(ctx context.Context, id string) (string, bool) {
	if s.cache == nil || id == "" {
		return "", false
	}
	return s.cache.Get(ctx, id)
}

func (s *Service) record(ctx context.Context, entry *journal.Entry, err error) {
	entry.Status = Classify(err)
	if err != nil {
		entry.Error = err.Error()
		if code, ok := navi.IsEngineError(err); ok {
			entry.EngineCode = code
		}
	}

	if s.journal == nil {
		return
	}
	if jerr := s.journal.Record(ctx, entry); jerr != nil {
		s.logger.WarnContext(ctx, "failed to journal route computation", "error", jerr)
	}
}

// Classify maps a FindPath error to its journal status.
func Classify(err error) string {
	switch {
	case err == nil:
		return journal.StatusSuccess
	case navi.IsPoiResolutionError(err):
		return journal.StatusPoiError
	case navi.IsTranslationError(err):
		return journal.StatusTranslationError
	}
	if _, ok := navi.IsEngineError(err); ok {
		return journal.StatusEngineError
	}
	return journal.StatusError
}
