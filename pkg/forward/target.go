package forward

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Headers read by a dynamic forwarder.
const (
	// ProxyURLHeader carries the absolute upstream URL.
	ProxyURLHeader = "X-Proxy-URL"

	// ProxyMethodHeader carries the upstream request method.
	ProxyMethodHeader = "X-Proxy-Method"

	// ProxyAuthorizationHeader is sent upstream as Authorization.
	ProxyAuthorizationHeader = "X-Proxy-Authorization"
)

// Target is where a forwarded request goes.
type Target struct {
	// URL is the absolute upstream URL.
	URL *url.URL

	// Method is the upstream method; empty keeps the incoming method.
	Method string

	// Authorization replaces the Authorization header when set.
	Authorization string
}

// TargetError reports a target that could not be built from configuration
// or request headers.
type TargetError struct {
	Header string
	Reason string
}

// Error implements the error interface.
func (e *TargetError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("%q header: %s", e.Header, e.Reason)
	}
	return e.Reason
}

// NewTarget validates a static target.
func NewTarget(rawURL, method, authorization string) (*Target, error) {
	u, err := parseTargetURL(rawURL)
	if err != nil {
		return nil, &TargetError{Reason: err.Error()}
	}
	if method != "" && !validMethod(method) {
		return nil, &TargetError{Reason: fmt.Sprintf("invalid method %q", method)}
	}
	return &Target{URL: u, Method: strings.ToUpper(method), Authorization: authorization}, nil
}

// TargetFromHeaders builds a target from the X-Proxy-* headers. URL and
// method are required; authorization is optional.
func TargetFromHeaders(h http.Header) (*Target, error) {
	rawURL := h.Get(ProxyURLHeader)
	if rawURL == "" {
		return nil, &TargetError{Header: ProxyURLHeader, Reason: "missing"}
	}
	u, err := parseTargetURL(rawURL)
	if err != nil {
		return nil, &TargetError{Header: ProxyURLHeader, Reason: err.Error()}
	}

	method := h.Get(ProxyMethodHeader)
	if method == "" {
		return nil, &TargetError{Header: ProxyMethodHeader, Reason: "missing"}
	}
	if !validMethod(method) {
		return nil, &TargetError{Header: ProxyMethodHeader, Reason: fmt.Sprintf("invalid method %q", method)}
	}

	return &Target{
		URL:           u,
		Method:        strings.ToUpper(method),
		Authorization: h.Get(ProxyAuthorizationHeader),
	}, nil
}

func parseTargetURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}
	return u, nil
}

func validMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}
