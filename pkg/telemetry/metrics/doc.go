// Package metrics exposes Prometheus metrics for the gateway.
//
// A single Collector is created at startup and passed to every component
// that reports metrics. It satisfies the observer interfaces declared by
// those components:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	poiClient := poi.NewClient(poiCfg, collector)           // ObservePoiLookup
//	gateway := engine.New(nil, engineCfg, collector)        // ObserveEngineCall
//	store, err := cache.New(ctx, cacheCfg, collector)       // ObserveCache
//	recorder := journal.NewRecorder(storage, rcfg, collector) // ObserveJournal
//
// HTTP requests are recorded by the server middleware through RecordRequest.
// The engine worker pool registers its queue gauges on Registry().
//
// Metric names are prefixed with telemetry.metrics.namespace (default
// "naviroute"). Label values are bounded: routes are mux patterns and are
// capped by a CardinalityLimiter.
package metrics
