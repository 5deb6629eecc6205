package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "default timeout", timeout: 0, expectedTimeout: 5 * time.Second},
		{name: "custom timeout", timeout: 2 * time.Second, expectedTimeout: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.ListChecks())
			}
		})
	}
}

func TestCheckReadiness_NoChecks(t *testing.T) {
	status := New(time.Second).CheckReadiness(context.Background())
	if status.Status != StatusReady {
		t.Errorf("expected ready, got %q", status.Status)
	}
}

func TestCheckReadiness_Mixed(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("engine", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("poi", func(ctx context.Context) error {
		return errors.New("poi service unhealthy")
	})

	var mu sync.Mutex
	reported := map[string]bool{}
	checker.OnReport(func(name string, healthy bool) {
		mu.Lock()
		reported[name] = healthy
		mu.Unlock()
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusDegraded {
		t.Errorf("expected degraded, got %q", status.Status)
	}
	if status.Checks["engine"].Status != StatusOK {
		t.Errorf("engine = %+v", status.Checks["engine"])
	}
	if status.Checks["poi"].Message != "poi service unhealthy" {
		t.Errorf("poi = %+v", status.Checks["poi"])
	}
	if !reported["engine"] || reported["poi"] {
		t.Errorf("reported = %v", reported)
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("cache", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	if status.Checks["cache"].Message != ErrCheckTimeout.Error() {
		t.Errorf("expected timeout message, got %+v", status.Checks["cache"])
	}
}

func TestUnregisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("journal", func(ctx context.Context) error { return errors.New("closed") })
	checker.UnregisterCheck("journal")

	if status := checker.CheckReadiness(context.Background()); !status.Ready() {
		t.Errorf("expected ready after unregister, got %q", status.Status)
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	failing := true
	checker.RegisterCheck("engine", func(ctx context.Context) error {
		if failing {
			return errors.New("engine not initialized")
		}
		return nil
	})

	mux := http.NewServeMux()
	checker.Mount(mux, "/health", "/ready", VersionInfo{Version: "1.2.3", Commit: "abc"})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   bool
	}{
		{"liveness", http.MethodGet, "/health", http.StatusOK, true},
		{"liveness head", http.MethodHead, "/health", http.StatusOK, false},
		{"readiness failing", http.MethodGet, "/ready", http.StatusServiceUnavailable, true},
		{"version", http.MethodGet, "/version", http.StatusOK, true},
		{"wrong method", http.MethodPost, "/health", http.StatusMethodNotAllowed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if (rec.Body.Len() > 0) != tt.wantBody {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}

	failing = false
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d after recovery", rec.Code)
	}

	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if status.Status != StatusReady {
		t.Errorf("status = %q", status.Status)
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.0.0", "deadbeef", "2026-01-01")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info.Version != "1.0.0" || info.Commit != "deadbeef" || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
}
