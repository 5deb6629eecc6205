package poi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"naviroute/gateway/pkg/navi"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObservePoiLookup(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientResolve(t *testing.T) {
	var gotBody map[string]map[string]string
	var gotPath, gotContentType string

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"rtnCode": "0",
			"traceId": "trace-1",
			"body": {"data": {"poiId": "123", "poiName": "North Gate", "longitude": "116.44", "latitude": "39.90", "roadId": "7"}}
		}`))
	})

	obs := &recordingObserver{}
	client := NewClient(Config{BaseURL: srv.URL + "/search/", Timeout: time.Second}, obs)

	detail, err := client.Resolve(context.Background(), "123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if gotPath != "/search/getPoiDetailByPoiId" {
		t.Errorf("path = %q, want /search/getPoiDetailByPoiId", gotPath)
	}
	if gotContentType != "application/json;charset=UTF-8" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody["data"]["poiId"] != "123" {
		t.Errorf("request body = %v, want data.poiId=123", gotBody)
	}
	if detail.PoiName != "North Gate" || detail.RoadID != "7" {
		t.Errorf("detail = %+v", detail)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != "success" {
		t.Errorf("observer outcomes = %v, want [success]", obs.outcomes)
	}
}

func TestClientResolveFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"body": {"data": `))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"rtnCode": "1", "body": {}}`))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)
			client := NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second, MaxRetries: 2}, nil)

			_, err := client.Resolve(context.Background(), "123")

			var perr *navi.PoiResolutionError
			if !errors.As(err, &perr) {
				t.Fatalf("Resolve() error = %v, want *navi.PoiResolutionError", err)
			}
			if perr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", perr.StatusCode, tt.wantStatus)
			}
			if perr.PoiID != "123" {
				t.Errorf("PoiID = %q, want 123", perr.PoiID)
			}
		})
	}
}

func TestClientDoesNotRetryStatusErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	client := NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second, MaxRetries: 3}, nil)
	if _, err := client.Resolve(context.Background(), "1"); err == nil {
		t.Fatal("Resolve() error = nil, want error")
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestClientRetriesTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{
		BaseURL:      url + "/",
		Timeout:      time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, nil)

	_, err := client.Resolve(context.Background(), "1")
	if !navi.IsPoiResolutionError(err) {
		t.Fatalf("Resolve() error = %v, want poi resolution error", err)
	}
	if h := client.GetHealth(); h.TotalRequests != 1 || h.FailedRequests != 1 {
		t.Errorf("health = %+v, want one failed request", h)
	}
}

func TestClientHealth(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"body":{"data":{"poiId":"1"}}}`))
	})

	client := NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = client.Resolve(ctx, "1")
	}
	if client.IsHealthy() {
		t.Error("IsHealthy() = true after 3 failures, want false")
	}
	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() = nil, want error")
	}

	fail.Store(false)
	if _, err := client.Resolve(ctx, "1"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !client.IsHealthy() {
		t.Error("IsHealthy() = false after success, want true")
	}
}

func TestClientCanceledLookupKeepsHealth(t *testing.T) {
	arrived := make(chan struct{}, 1)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-r.Context().Done()
	})

	obs := &recordingObserver{}
	client := NewClient(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, obs)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-arrived
			cancel()
		}()

		_, err := client.Resolve(ctx, "1")
		cancel()

		var resErr *navi.PoiResolutionError
		if !errors.As(err, &resErr) {
			t.Fatalf("Resolve() error = %v, want *navi.PoiResolutionError", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Resolve() error = %v, want context.Canceled", err)
		}
	}

	h := client.GetHealth()
	if !h.IsHealthy || h.ConsecutiveFailures != 0 || h.TotalRequests != 0 {
		t.Errorf("health = %+v, want untouched by canceled lookups", h)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	for _, got := range obs.outcomes {
		if got != "canceled" {
			t.Errorf("outcome = %q, want canceled", got)
		}
	}
	if len(obs.outcomes) != 3 {
		t.Errorf("observed %d lookups, want 3", len(obs.outcomes))
	}
}
