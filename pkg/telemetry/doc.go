// Package telemetry groups the observability packages of the gateway.
//
// # Components
//
//   - logging: slog setup, request-scoped attributes and credential redaction
//   - metrics: Prometheus collector for requests, POI lookups, engine calls,
//     cache and journal outcomes
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.OnReport(collector.UpdateUpstreamHealth)
//
// # Redaction
//
// With telemetry.logging.redact enabled, attributes named like credentials
// (authorization, password, token) are logged as "[REDACTED]".
package telemetry
