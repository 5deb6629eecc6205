package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "gw",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if collector.Namespace() != "test" || collector.Subsystem() != "gw" {
		t.Errorf("namespace/subsystem = %q/%q", collector.Namespace(), collector.Subsystem())
	}
}

func TestCollector_DefaultNamespace(t *testing.T) {
	collector := NewCollector(&config.MetricsConfig{Enabled: true}, nil)
	if collector.Namespace() != "naviroute" {
		t.Errorf("Namespace() = %q", collector.Namespace())
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordRequest("/api/v1/navi", "POST", 200, 40*time.Millisecond, 512)
	collector.RecordRequest("/api/v1/navi", "POST", 200, 60*time.Millisecond, 512)
	collector.RecordRequest("/api/v1/navi", "POST", 500, 10*time.Millisecond, 80)

	ok := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api/v1/navi", "POST", "200"))
	if ok != 2 {
		t.Errorf("200 count = %v, want 2", ok)
	}
	failed := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api/v1/navi", "POST", "500"))
	if failed != 1 {
		t.Errorf("500 count = %v, want 1", failed)
	}
}

func TestCollector_ObserverMethods(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.ObservePoiLookup("success", 5*time.Millisecond)
	collector.ObservePoiLookup("error", 5*time.Millisecond)
	collector.ObservePoiLookup("error", 5*time.Millisecond)
	collector.UpdateUpstreamHealth("poi", false)
	collector.ObserveForward("success", 8*time.Millisecond)

	collector.ObserveEngineCall(0, 20*time.Millisecond)
	collector.ObserveEngineCall(2, 1*time.Millisecond)

	collector.ObserveCache("get", "hit")
	collector.ObserveCache("get", "miss")
	collector.ObserveCache("set", "error")

	collector.ObserveJournal("written")
	collector.ObserveJournal("dropped")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"poi errors", testutil.ToFloat64(collector.upstreamMetrics.requests.WithLabelValues("poi", "error")), 2},
		{"poi success", testutil.ToFloat64(collector.upstreamMetrics.requests.WithLabelValues("poi", "success")), 1},
		{"forward success", testutil.ToFloat64(collector.upstreamMetrics.requests.WithLabelValues("forward", "success")), 1},
		{"poi health", testutil.ToFloat64(collector.upstreamMetrics.health.WithLabelValues("poi")), 0},
		{"engine ok", testutil.ToFloat64(collector.engineMetrics.calls.WithLabelValues("0")), 1},
		{"engine status 2", testutil.ToFloat64(collector.engineMetrics.calls.WithLabelValues("2")), 1},
		{"cache hits", testutil.ToFloat64(collector.cacheMetrics.hitsTotal), 1},
		{"cache misses", testutil.ToFloat64(collector.cacheMetrics.missesTotal), 1},
		{"cache set errors", testutil.ToFloat64(collector.cacheMetrics.operations.WithLabelValues("set", "error")), 1},
		{"journal written", testutil.ToFloat64(collector.journalMetrics.entries.WithLabelValues("written")), 1},
		{"journal dropped", testutil.ToFloat64(collector.journalMetrics.entries.WithLabelValues("dropped")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordRequest("/api/v1/navi", "POST", 200, time.Millisecond, 10)
	collector.ObserveEngineCall(0, time.Millisecond)
	collector.ObserveCache("get", "hit")

	if got := testutil.CollectAndCount(collector.requestMetrics.requestsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d request series", got)
	}
	if got := testutil.ToFloat64(collector.cacheMetrics.hitsTotal); got != 0 {
		t.Errorf("disabled collector recorded cache hits: %v", got)
	}
}

func TestCollector_RouteCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordRequest("/api/v1/navi", "GET", 200, time.Millisecond, 0)
	collector.RecordRequest("/files/a/b/c", "GET", 200, time.Millisecond, 0)

	other := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("other", "GET", "200"))
	if other != 1 {
		t.Errorf("overflow route count = %v, want 1", other)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(2)

	if !limiter.Allow("a") || !limiter.Allow("b") {
		t.Fatal("first two label sets should be allowed")
	}
	if limiter.Allow("c") {
		t.Error("third label set should be rejected")
	}
	if !limiter.Allow("a") {
		t.Error("known label set should stay allowed")
	}
	if limiter.Count() != 2 {
		t.Errorf("Count() = %d, want 2", limiter.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.ObserveEngineCall(0, 3*time.Millisecond)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `test_gw_engine_calls_total{code="0"} 1`) {
		t.Errorf("engine counter missing from exposition:\n%s", body)
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				collector.RecordRequest("/api/v1/navijson", "POST", 200, time.Millisecond, 64)
				collector.ObserveCache("set", "ok")
			}
		}()
	}
	wg.Wait()

	got := testutil.ToFloat64(collector.cacheMetrics.operations.WithLabelValues("set", "ok"))
	if got != 1000 {
		t.Errorf("cache set count = %v, want 1000", got)
	}
}
