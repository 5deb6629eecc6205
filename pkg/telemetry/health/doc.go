// Package health serves liveness and readiness probes.
//
// Liveness only says the process is up. Readiness runs one check per
// dependency, concurrently and each under its own timeout:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("engine", gateway.HealthCheck)
//	checker.RegisterCheck("poi", poiClient.HealthCheck)
//	checker.RegisterCheck("cache", store.HealthCheck)
//	checker.RegisterCheck("journal", storage.Ping)
//	checker.OnReport(collector.UpdateUpstreamHealth)
//	checker.Mount(mux, "/health", "/ready", versionInfo)
//
// The readiness endpoint answers 503 while any check fails.
package health
