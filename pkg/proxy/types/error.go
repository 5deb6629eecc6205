package types

import "net/http"

// ErrorResponse is the JSON body returned for every failed API request.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error and selects the HTTP status.
	Type string `json:"type"`

	// Param is the name of the parameter that caused the error (if applicable).
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeAuthentication indicates missing or wrong credentials (401).
	ErrorTypeAuthentication = "authentication_error"

	// ErrorTypeNotFound indicates a resource was not found (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeMethodNotAllowed indicates the route does not accept the method (405).
	ErrorTypeMethodNotAllowed = "method_not_allowed"

	// ErrorTypeRequestTooLarge indicates the body exceeded server.max_body_bytes (413).
	ErrorTypeRequestTooLarge = "request_too_large"

	// ErrorTypeRateLimitExceeded indicates too many requests (429).
	ErrorTypeRateLimitExceeded = "rate_limit_exceeded"

	// ErrorTypeTranslation indicates the route request could not be translated (500).
	ErrorTypeTranslation = "translation_error"

	// ErrorTypePoi indicates the POI search service failed (500).
	ErrorTypePoi = "poi_error"

	// ErrorTypeEngine indicates the routing engine returned a nonzero status (500).
	ErrorTypeEngine = "engine_error"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeBadGateway indicates a forwarded request failed upstream (502).
	ErrorTypeBadGateway = "bad_gateway"

	// ErrorTypeServiceUnavailable indicates temporary unavailability (503).
	ErrorTypeServiceUnavailable = "service_unavailable"

	// ErrorTypeGatewayTimeout indicates the request deadline passed (504).
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// Error code constants for common error scenarios.
const (
	// CodeMissingField indicates a required field or header is missing.
	CodeMissingField = "missing_field"

	// CodeInvalidValue indicates a field has an invalid value.
	CodeInvalidValue = "invalid_value"

	// CodeReadFailed indicates the request body could not be read.
	CodeReadFailed = "read_failed"

	// CodeRequestTooLarge indicates the request payload is too large.
	CodeRequestTooLarge = "request_too_large"

	// CodeRouteNotFound indicates no cached route exists for the id.
	CodeRouteNotFound = "route_not_found"

	// CodePoiUnresolved indicates a POI id could not be resolved.
	CodePoiUnresolved = "poi_unresolved"

	// CodeEngineStatus indicates a nonzero engine status.
	CodeEngineStatus = "engine_status"

	// CodeEngineBusy indicates the engine queue is full or the pool is stopped.
	CodeEngineBusy = "engine_busy"

	// CodeTimeout indicates the request deadline passed.
	CodeTimeout = "timeout"

	// CodeInternalError indicates an internal server error.
	CodeInternalError = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewNotFoundError creates an error response for unknown resources (404).
func NewNotFoundError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeNotFound, "", code)
}

// NewMethodNotAllowedError creates an error response for a wrong method (405).
func NewMethodNotAllowedError(method string) *ErrorResponse {
	return NewErrorResponse("method "+method+" is not allowed", ErrorTypeMethodNotAllowed, "", "")
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// NewBadGatewayError creates an error response for failed forwarding (502).
func NewBadGatewayError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeBadGateway, "", "")
}

// NewServiceUnavailableError creates an error response for temporary unavailability (503).
func NewServiceUnavailableError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServiceUnavailable, "", CodeEngineBusy)
}

// NewGatewayTimeoutError creates an error response for expired deadlines (504).
func NewGatewayTimeoutError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeGatewayTimeout, "", CodeTimeout)
}

// HTTPStatusCode returns the appropriate HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorTypeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrorTypeBadGateway:
		return http.StatusBadGateway
	case ErrorTypeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
