package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"naviroute/gateway/pkg/config"
)

func TestCORSMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	t.Run("adds CORS headers for allowed origin", func(t *testing.T) {
		cfg := &config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://maps.example.com"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         3600,
		}

		wrapped := CORSMiddleware(cfg)(handler)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/navi", nil)
		req.Header.Set("Origin", "https://maps.example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "https://maps.example.com" {
			t.Errorf("Expected Access-Control-Allow-Origin header to be set")
		}
		if w.Body.String() != "OK" {
			t.Errorf("handler not called, body = %q", w.Body.String())
		}
	})

	t.Run("allows all origins with wildcard", func(t *testing.T) {
		cfg := &config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
		}

		wrapped := CORSMiddleware(cfg)(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/navi", nil)
		req.Header.Set("Origin", "https://any-origin.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		got := w.Header().Get("Access-Control-Allow-Origin")
		if got != "*" && got != "https://any-origin.com" {
			t.Errorf("Expected Access-Control-Allow-Origin to be '*' or matching origin, got: %s", got)
		}
	})

	t.Run("handles preflight OPTIONS request", func(t *testing.T) {
		cfg := &config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         3600,
		}

		wrapped := CORSMiddleware(cfg)(handler)

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/navijson", nil)
		req.Header.Set("Origin", "https://maps.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Preflight should return 204, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS" {
			t.Errorf("Access-Control-Allow-Methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
		}
		if w.Header().Get("Access-Control-Allow-Headers") == "" {
			t.Error("Access-Control-Allow-Headers should be set for preflight")
		}
		if w.Header().Get("Access-Control-Max-Age") != "3600" {
			t.Errorf("Access-Control-Max-Age = %v, want 3600", w.Header().Get("Access-Control-Max-Age"))
		}
	})

	t.Run("plain OPTIONS reaches the handler", func(t *testing.T) {
		cfg := &config.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}}

		wrapped := CORSMiddleware(cfg)(handler)

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/navi", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want handler's 200", w.Code)
		}
	})

	t.Run("blocks disallowed origin", func(t *testing.T) {
		cfg := &config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://maps.example.com"},
		}

		wrapped := CORSMiddleware(cfg)(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/navi", nil)
		req.Header.Set("Origin", "https://evil.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Should not set CORS headers for disallowed origin")
		}
	})

	t.Run("skips CORS when disabled", func(t *testing.T) {
		cfg := &config.CORSConfig{
			Enabled:        false,
			AllowedOrigins: []string{"*"},
		}

		wrapped := CORSMiddleware(cfg)(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/navi", nil)
		req.Header.Set("Origin", "https://maps.example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Should not set CORS headers when disabled")
		}
	})

	t.Run("sets credentials and exposed headers", func(t *testing.T) {
		cfg := &config.CORSConfig{
			Enabled:          true,
			AllowedOrigins:   []string{"https://maps.example.com"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Route-ID"},
			AllowCredentials: true,
		}

		wrapped := CORSMiddleware(cfg)(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/navi", nil)
		req.Header.Set("Origin", "https://maps.example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Should set Access-Control-Allow-Credentials when enabled")
		}
		if w.Header().Get("Access-Control-Expose-Headers") != "X-Request-ID, X-Route-ID" {
			t.Errorf("Access-Control-Expose-Headers = %q", w.Header().Get("Access-Control-Expose-Headers"))
		}
	})
}

func BenchmarkCORSMiddleware(b *testing.B) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cfg := config.NewDefaultConfig().Server.CORS
	cfg.Enabled = true
	wrapped := CORSMiddleware(&cfg)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/navi", nil)
	req.Header.Set("Origin", "https://maps.example.com")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
	}
}
