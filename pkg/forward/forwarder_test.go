package forward

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naviroute/gateway/pkg/proxy/types"
)

type seenRequest struct {
	method string
	path   string
	body   string
	header http.Header
}

func newUpstream(t *testing.T, status int) (*httptest.Server, <-chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen <- seenRequest{method: r.Method, path: r.URL.Path, body: string(body), header: r.Header.Clone()}
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Keep-Alive", "timeout=5")
		w.Header().Set("X-Upstream", "tiles")
		w.WriteHeader(status)
		_, _ = w.Write([]byte("upstream says hi"))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

type fakeObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *fakeObserver) ObserveForward(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func TestForwarder_Static(t *testing.T) {
	upstream, seen := newUpstream(t, http.StatusCreated)
	obs := &fakeObserver{}

	f, err := New(Config{URL: upstream.URL + "/v1/tiles", Method: "put", Authorization: "Bearer static"}, obs)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/anything", strings.NewReader("floor=3"))
	req.RemoteAddr = "10.0.0.7:41000"
	req.Header.Set("Connection", "keep-alive, X-Secret-Hop")
	req.Header.Set("X-Secret-Hop", "drop me")
	req.Header.Set("Proxy-Authorization", "Basic Zm9v")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Client", "kiosk-4")
	w := httptest.NewRecorder()

	f.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "upstream says hi", w.Body.String())
	assert.Equal(t, "tiles", w.Header().Get("X-Upstream"))
	assert.Empty(t, w.Header().Get("Keep-Alive"), "hop-by-hop response header forwarded")

	got := <-seen
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/v1/tiles", got.path)
	assert.Equal(t, "floor=3", got.body)
	assert.Equal(t, "Bearer static", got.header.Get("Authorization"))
	assert.Equal(t, "kiosk-4", got.header.Get("X-Client"))
	assert.Empty(t, got.header.Get("X-Secret-Hop"))
	assert.Empty(t, got.header.Get("Proxy-Authorization"))
	assert.Equal(t, "203.0.113.9, 10.0.0.7", got.header.Get("X-Forwarded-For"))

	assert.Equal(t, []string{"success"}, obs.outcomes)
}

func TestForwarder_StaticKeepsIncomingMethod(t *testing.T) {
	upstream, seen := newUpstream(t, http.StatusOK)

	f, err := New(Config{URL: upstream.URL}, nil)
	require.NoError(t, err)

	f.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.MethodDelete, (<-seen).method)
}

func TestForwarder_Dynamic(t *testing.T) {
	upstream, seen := newUpstream(t, http.StatusOK)

	f, err := New(Config{Dynamic: true}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(ProxyURLHeader, upstream.URL+"/poi/42")
	req.Header.Set(ProxyMethodHeader, "GET")
	req.Header.Set(ProxyAuthorizationHeader, "Bearer dyn")
	w := httptest.NewRecorder()

	f.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	got := <-seen
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/poi/42", got.path)
	assert.Equal(t, "Bearer dyn", got.header.Get("Authorization"))
	assert.Empty(t, got.header.Get(ProxyURLHeader), "X-Proxy-* headers forwarded")
	assert.Empty(t, got.header.Get(ProxyMethodHeader))
}

func TestForwarder_DynamicMissingHeaders(t *testing.T) {
	f, err := New(Config{Dynamic: true}, nil)
	require.NoError(t, err)

	tests := []struct {
		name      string
		headers   map[string]string
		wantParam string
	}{
		{"missing url", map[string]string{ProxyMethodHeader: "GET"}, ProxyURLHeader},
		{"missing method", map[string]string{ProxyURLHeader: "http://example.com/"}, ProxyMethodHeader},
		{"bad scheme", map[string]string{ProxyURLHeader: "ftp://example.com/", ProxyMethodHeader: "GET"}, ProxyURLHeader},
		{"bad method", map[string]string{ProxyURLHeader: "http://example.com/", ProxyMethodHeader: "BREW"}, ProxyMethodHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			f.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body types.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantParam, body.Error.Param)
		})
	}
}

func TestForwarder_MissingURLMessage(t *testing.T) {
	_, err := TargetFromHeaders(http.Header{})
	require.Error(t, err)
	assert.Equal(t, `"X-Proxy-URL" header: missing`, err.Error())
}

func TestForwarder_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()

	obs := &fakeObserver{}
	f, err := New(Config{URL: addr}, obs)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, []string{"error"}, obs.outcomes)
}

func TestForwarder_UpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(upstream.Close)
	t.Cleanup(func() { close(release) })

	f, err := New(Config{URL: upstream.URL, Timeout: 30 * time.Millisecond}, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestNew_InvalidStaticTarget(t *testing.T) {
	_, err := New(Config{URL: "not a url"}, nil)
	assert.ErrorContains(t, err, "invalid static proxy target")

	_, err = New(Config{URL: "http://example.com", Method: "BREW"}, nil)
	assert.Error(t, err)
}
