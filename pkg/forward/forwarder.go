package forward

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"naviroute/gateway/pkg/proxy"
	"naviroute/gateway/pkg/proxy/types"
)

// hopHeaders are meaningful for a single connection only and are never
// forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Observer receives forwarding outcomes. The metrics collector implements it.
type Observer interface {
	ObserveForward(outcome string, duration time.Duration)
}

// Config configures a Forwarder.
type Config struct {
	// Dynamic takes the target from the X-Proxy-* request headers.
	Dynamic bool

	// URL, Method and Authorization describe the static target.
	URL           string
	Method        string
	Authorization string

	// Timeout bounds one upstream exchange. Zero means no client timeout;
	// the request context still applies.
	Timeout time.Duration
}

// Forwarder is the "proxy" server backend. It sends each incoming request
// to a static or per-request target and streams the answer back.
type Forwarder struct {
	static   *Target
	dynamic  bool
	client   *http.Client
	observer Observer
	logger   *slog.Logger
}

// New creates a Forwarder. A static target is validated here.
func New(cfg Config, observer Observer) (*Forwarder, error) {
	f := &Forwarder{
		dynamic: cfg.Dynamic,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		observer: observer,
		logger:   slog.Default().With("component", "forward"),
	}

	if !cfg.Dynamic {
		target, err := NewTarget(cfg.URL, cfg.Method, cfg.Authorization)
		if err != nil {
			return nil, fmt.Errorf("invalid static proxy target: %w", err)
		}
		f.static = target
	}

	return f, nil
}

// ServeHTTP implements http.Handler.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target := f.static
	if f.dynamic {
		var err error
		target, err = TargetFromHeaders(r.Header)
		if err != nil {
			f.logger.WarnContext(ctx, "rejected dynamic proxy request", "error", err)
			proxy.WriteErrorResponse(w, types.NewInvalidRequestError(err.Error(), headerParam(err), types.CodeMissingField))
			return
		}
	}

	outReq, err := f.newUpstreamRequest(ctx, r, target)
	if err != nil {
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(err.Error(), "", types.CodeInvalidValue))
		return
	}

	start := time.Now()
	resp, err := f.client.Do(outReq)
	if err != nil {
		f.observe("error", time.Since(start))
		f.logger.WarnContext(ctx, "upstream request failed",
			"target", target.URL.Redacted(),
			"error", err,
		)
		if isTimeout(err) {
			proxy.WriteErrorResponse(w, types.NewGatewayTimeoutError("Upstream request timed out"))
			return
		}
		proxy.WriteErrorResponse(w, types.NewBadGatewayError("Upstream request failed"))
		return
	}
	defer resp.Body.Close()

	outcome := "success"
	if resp.StatusCode >= 500 {
		outcome = "error"
	}

	removeHopHeaders(resp.Header)
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	n, err := io.Copy(w, resp.Body)
	f.observe(outcome, time.Since(start))
	if err != nil {
		f.logger.WarnContext(ctx, "failed to stream upstream response",
			"target", target.URL.Redacted(),
			"bytes", n,
			"error", err,
		)
		return
	}

	f.logger.DebugContext(ctx, "request forwarded",
		"target", target.URL.Redacted(),
		"method", outReq.Method,
		"status", resp.StatusCode,
		"bytes", n,
	)
}

func (f *Forwarder) newUpstreamRequest(ctx context.Context, r *http.Request, target *Target) (*http.Request, error) {
	method := target.Method
	if method == "" {
		method = r.Method
	}

	var body io.Reader
	if r.Body != nil && r.Body != http.NoBody && method != http.MethodGet && method != http.MethodHead {
		body = r.Body
	}

	outReq, err := http.NewRequestWithContext(ctx, method, target.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	if body != nil {
		outReq.ContentLength = r.ContentLength
	}

	copyHeader(outReq.Header, r.Header)
	removeHopHeaders(outReq.Header)
	outReq.Header.Del(ProxyURLHeader)
	outReq.Header.Del(ProxyMethodHeader)
	outReq.Header.Del(ProxyAuthorizationHeader)

	if target.Authorization != "" {
		outReq.Header.Set("Authorization", target.Authorization)
	}
	appendForwardedFor(outReq.Header, r.RemoteAddr)

	return outReq, nil
}

func (f *Forwarder) observe(outcome string, d time.Duration) {
	if f.observer != nil {
		f.observer.ObserveForward(outcome, d)
	}
}

// removeHopHeaders deletes the hop-by-hop headers, including any listed in
// the Connection header.
func removeHopHeaders(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

// appendForwardedFor adds the client address to X-Forwarded-For.
func appendForwardedFor(h http.Header, remoteAddr string) {
	clientIP, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		clientIP = remoteAddr
	}
	if clientIP == "" {
		return
	}
	if prior := h.Values("X-Forwarded-For"); len(prior) > 0 {
		clientIP = strings.Join(prior, ", ") + ", " + clientIP
	}
	h.Set("X-Forwarded-For", clientIP)
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func headerParam(err error) string {
	var te *TargetError
	if errors.As(err, &te) {
		return te.Header
	}
	return ""
}
