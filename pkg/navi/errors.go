package navi

import (
	"errors"
	"fmt"
)

// TranslationError reports a route request that could not be turned into a
// normalized engine request.
type TranslationError struct {
	// Reason is a short description of what went wrong.
	Reason string

	// Field is the offending field, if any.
	Field string

	// Err is the underlying error (if any).
	Err error
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	msg := "translate route request: " + e.Reason
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *TranslationError) Unwrap() error {
	return e.Err
}

// PoiResolutionError reports a failed lookup against the POI search service.
// It is a kind of TranslationError: errors.As with a *TranslationError target
// also matches.
type PoiResolutionError struct {
	// PoiID is the identifier that failed to resolve.
	PoiID string

	// StatusCode is the HTTP status returned by the service (0 if none).
	StatusCode int

	// Err is the underlying error (if any).
	Err error
}

// Error implements the error interface.
func (e *PoiResolutionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("resolve poi %q: status %d: %v", e.PoiID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("resolve poi %q: %v", e.PoiID, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *PoiResolutionError) Unwrap() error {
	return e.Err
}

// As lets callers treat a resolution failure as a translation failure.
func (e *PoiResolutionError) As(target any) bool {
	t, ok := target.(**TranslationError)
	if !ok {
		return false
	}
	*t = &TranslationError{Reason: "poi resolution failed", Field: e.PoiID, Err: e}
	return true
}

// EngineError reports a nonzero status from the routing engine.
type EngineError struct {
	// Op is the engine call that failed ("initialize" or "find_path").
	Op string

	// Code is the status returned by the engine.
	Code int32
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	op := e.Op
	if op == "" {
		op = "find_path"
	}
	return fmt.Sprintf("routing engine %s failed with status %d", op, e.Code)
}

// CacheError reports a cache connection or command failure.
type CacheError struct {
	// Op is the cache operation ("connect", "get", "set").
	Op string

	// Key is the key involved, empty for connection errors.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsTranslationError reports whether err is a translation failure,
// including POI resolution failures.
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}

// IsPoiResolutionError reports whether err is a POI lookup failure.
func IsPoiResolutionError(err error) bool {
	var pe *PoiResolutionError
	return errors.As(err, &pe)
}

// IsEngineError reports whether err is a routing engine failure.
// The status code is returned when it is.
func IsEngineError(err error) (int32, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}
