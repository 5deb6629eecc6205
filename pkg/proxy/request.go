package proxy

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"naviroute/gateway/pkg/proxy/types"
)

const (
	// DefaultMaxBodyBytes is used when ReadBody is called with a nonpositive limit.
	DefaultMaxBodyBytes = 1 << 20

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"

	// RouteIDHeader carries the engine route id on route responses.
	RouteIDHeader = "X-Route-ID"
)

// ReadBody reads the full request body, refusing bodies larger than
// maxBytes. The route payload is opaque at this layer, so no decoding
// happens here.
func ReadBody(r *http.Request, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, tooLarge(maxErr.Limit)
		}
		return nil, &RequestError{
			Message: fmt.Sprintf("failed to read request body: %v", err),
			Code:    types.CodeReadFailed,
			Param:   "body",
		}
	}

	if int64(len(body)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	return body, nil
}

func tooLarge(limit int64) *RequestError {
	return &RequestError{
		Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", limit),
		Code:    types.CodeRequestTooLarge,
		Param:   "body",
	}
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
// If the header is not present, it returns an empty string.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// RequestError represents a request that could not be read.
type RequestError struct {
	Message string
	Code    string
	Param   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to an API error response.
// Oversized bodies get 413, everything else 400.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	if e.Code == types.CodeRequestTooLarge {
		return types.NewErrorResponse(e.Message, types.ErrorTypeRequestTooLarge, e.Param, e.Code)
	}
	return types.NewInvalidRequestError(e.Message, e.Param, e.Code)
}
