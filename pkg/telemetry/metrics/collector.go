package metrics

import (
	"strconv"
	"sync"
	"time"

	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Duration buckets for HTTP requests, which include POI lookups and the
// engine call (5ms - 10s).
var requestDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Duration buckets for upstream calls (1ms - 5s).
var upstreamDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Collector owns every Prometheus metric of the gateway.
// It implements the observer interfaces of the poi, forward, engine, cache
// and journal packages, so one instance is handed to all of them.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	upstreamMetrics *UpstreamMetrics
	engineMetrics   *EngineMetrics
	cacheMetrics    *CacheMetrics
	journalMetrics  *JournalMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector and registers its metrics. If registry
// is nil a fresh registry is created.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)
	c.engineMetrics = NewEngineMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)
	c.journalMetrics = NewJournalMetrics(cfg, registry)

	return c
}

// RecordRequest records a completed HTTP request.
//
// route is the mux pattern (e.g. "/api/v1/navi"), never the raw URL, so
// path parameters cannot inflate cardinality. Unknown routes past the
// cardinality limit are folded into "other".
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration, responseBytes int) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(route) {
		route = "other"
	}

	c.requestMetrics.RecordRequest(route, method, strconv.Itoa(status), duration, responseBytes)
}

// ObservePoiLookup records one POI search call. outcome is "success",
// "error" or "canceled".
func (c *Collector) ObservePoiLookup(outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.RecordCall("poi", outcome, duration)
}

// ObserveForward records one request sent upstream by the proxy backend.
func (c *Collector) ObserveForward(outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.RecordCall("forward", outcome, duration)
}

// UpdateUpstreamHealth sets the health gauge of a dependency
// (1=healthy, 0=unhealthy).
func (c *Collector) UpdateUpstreamHealth(upstream string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.UpdateHealth(upstream, healthy)
}

// ObserveEngineCall records one engine call with its status code.
func (c *Collector) ObserveEngineCall(code int32, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.engineMetrics.RecordCall(code, duration)
}

// ObserveCache records a cache command. op is "get" or "set".
func (c *Collector) ObserveCache(op, outcome string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.Record(op, outcome)
}

// ObserveJournal records the fate of a journal entry: "written", "failed"
// or "dropped".
func (c *Collector) ObserveJournal(outcome string) {
	if !c.config.Enabled {
		return
	}

	c.journalMetrics.Record(outcome)
}

// Registry returns the Prometheus registry used by this collector. The
// engine worker pool registers its queue metrics here.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Namespace returns the metric namespace.
func (c *Collector) Namespace() string {
	return c.config.Namespace
}

// Subsystem returns the metric subsystem.
func (c *Collector) Subsystem() string {
	return c.config.Subsystem
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used. Values already seen are
// always allowed; new values are allowed until the limit is reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
