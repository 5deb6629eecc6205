// Package server provides the HTTP server of the gateway.
//
// The server ties one backend to the middleware chain and the telemetry
// endpoints, and manages start, graceful shutdown and OS signals.
//
// # Backends
//
// server.type is resolved once by NewBackend into a Backend:
//
//	file   BackendFiles   read-only directory listing of server.root_dir
//	api    BackendAPI     /api/v1/health, /api/v1/navi, /api/v1/navijson
//	proxy  BackendProxy   forward to proxy.url or to the X-Proxy-URL header
//
// # Basic Usage
//
//	backend, err := server.NewBackend(cfg, server.Dependencies{Service: svc})
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	srv := server.NewServer(cfg, backend, server.Options{
//	    Metrics: collector,
//	    Health:  checker,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// # Graceful Shutdown
//
// Start returns after SIGINT, SIGTERM, context cancellation or
// RequestShutdown. In-flight requests get server.shutdown_timeout to finish.
//
// # TLS
//
// With server.tls.enabled the listener serves TLS 1.2+ using
// server.tls.cert_file and server.tls.key_file.
package server
