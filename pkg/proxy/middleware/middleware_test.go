package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"naviroute/gateway/pkg/config"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestBasicAuthMiddleware(t *testing.T) {
	cfg := &config.BasicAuthConfig{Enabled: true, Username: "nav", Password: "s3cret"}
	wrapped := BasicAuthMiddleware(cfg)(okHandler("ok"))

	tests := []struct {
		name       string
		user, pass string
		setAuth    bool
		wantStatus int
	}{
		{"valid credentials", "nav", "s3cret", true, http.StatusOK},
		{"wrong password", "nav", "nope", true, http.StatusUnauthorized},
		{"wrong user", "admin", "s3cret", true, http.StatusUnauthorized},
		{"no credentials", "", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/navi", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate challenge")
			}
		})
	}
}

func TestBasicAuthMiddleware_Disabled(t *testing.T) {
	wrapped := BasicAuthMiddleware(&config.BasicAuthConfig{})(okHandler("ok"))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}
	wrapped := RateLimitMiddleware(cfg)(okHandler("ok"))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/navi", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Error("429 without Retry-After")
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestGzipMiddleware(t *testing.T) {
	payload := strings.Repeat(`{"id":"r-1","payload":"abcabcabc"}`, 50)
	wrapped := GzipMiddleware(true)(okHandler(payload))

	t.Run("compresses when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/navi?id=r-1", nil)
		req.Header.Set("Accept-Encoding", "br, gzip")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("Content-Encoding = %q", w.Header().Get("Content-Encoding"))
		}
		zr, err := gzip.NewReader(w.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		got, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != payload {
			t.Error("decompressed body differs from the handler's output")
		}
	})

	t.Run("passes through without Accept-Encoding", func(t *testing.T) {
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/navi?id=r-1", nil))

		if w.Header().Get("Content-Encoding") != "" {
			t.Error("compressed a response the client did not accept")
		}
		if w.Body.String() != payload {
			t.Error("body changed")
		}
	})

	t.Run("respects q=0", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip;q=0")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "" {
			t.Error("compressed although gzip was refused")
		}
	})

	t.Run("no body statuses are untouched", func(t *testing.T) {
		noContent := GzipMiddleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		noContent.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "" || w.Body.Len() != 0 {
			t.Error("204 response was compressed")
		}
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadlineSet bool
	var ctxErr error
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadlineSet = r.Context().Deadline()
		<-r.Context().Done()
		ctxErr = r.Context().Err()
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	w := httptest.NewRecorder()
	TimeoutMiddleware(20*time.Millisecond)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/navi", nil))

	if !deadlineSet {
		t.Error("handler context has no deadline")
	}
	if ctxErr != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctxErr)
	}
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d", w.Code)
	}
}

func TestTimeoutMiddleware_Disabled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			t.Error("deadline set although timeout is zero")
		}
	})
	TimeoutMiddleware(0)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

type recordedRequest struct {
	route, method string
	status, bytes int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeRecorder) RecordRequest(route, method string, status int, _ time.Duration, responseBytes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{route, method, status, responseBytes})
}

func TestMetricsMiddleware(t *testing.T) {
	rec := &fakeRecorder{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	wrapped := MetricsMiddleware(rec, "/api/v1/navi")(handler)
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/navi?id=zzz", nil))

	if len(rec.requests) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(rec.requests))
	}
	got := rec.requests[0]
	if got.route != "/api/v1/navi" || got.method != "GET" || got.status != http.StatusNotFound {
		t.Errorf("recorded %+v", got)
	}
	if got.bytes != len("nope\n") {
		t.Errorf("bytes = %d", got.bytes)
	}
}

func TestMetricsMiddleware_NilRecorder(t *testing.T) {
	h := okHandler("ok")
	w := httptest.NewRecorder()
	MetricsMiddleware(nil, "/x")(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetStartTime(r.Context()).IsZero() {
			t.Error("start time missing from context")
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("engine down"))
	})

	LoggingMiddleware(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/navi", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"request completed"`, `"level":"ERROR"`, `"status":500`, `"bytes":11`, `"component":"http"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
