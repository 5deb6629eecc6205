package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"naviroute/gateway/pkg/config"
	"naviroute/gateway/pkg/proxy/middleware"
	"naviroute/gateway/pkg/telemetry/health"
	"naviroute/gateway/pkg/telemetry/metrics"
)

// Options holds the optional collaborators of a Server.
type Options struct {
	// Metrics, when set and enabled, is exposed on telemetry.metrics.path
	// and records every backend route.
	Metrics *metrics.Collector

	// Health, when set, serves the liveness, readiness and version paths.
	Health *health.Checker

	// Version is reported on the version path.
	Version health.VersionInfo
}

// Server is the HTTP front of the gateway.
type Server struct {
	config       *config.Config
	backend      *Backend
	opts         Options
	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	logger       *slog.Logger
}

// NewServer creates a server for an already resolved backend.
func NewServer(cfg *config.Config, backend *Backend, opts Options) *Server {
	return &Server{
		config:       cfg,
		backend:      backend,
		opts:         opts,
		shutdownChan: make(chan struct{}),
		logger:       slog.Default().With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// SIGINT or SIGTERM arrives, RequestShutdown is called or serving fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	srvCfg := &s.config.Server
	s.httpServer = &http.Server{
		Addr:           srvCfg.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxHeaderBytes: srvCfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	if srvCfg.TLS.Enabled {
		tlsConfig, err := s.configureTLS()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	listener, err := net.Listen("tcp", srvCfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", srvCfg.ListenAddress, err)
	}
	s.listener = listener
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"address", listener.Addr().String(),
			"backend", s.backend.Kind.String(),
			"tls_enabled", srvCfg.TLS.Enabled,
		)

		var err error
		if srvCfg.TLS.Enabled {
			err = s.httpServer.ServeTLS(listener, srvCfg.TLS.CertFile, srvCfg.TLS.KeyFile)
		} else {
			err = s.httpServer.Serve(listener)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.markStopped()
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// RequestShutdown asks a running Start to return. It does not wait.
func (s *Server) RequestShutdown() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, waiting up to
// server.shutdown_timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.markStopped()
		s.logger.Info("server stopped")
	})

	return shutdownErr
}

func (s *Server) markStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

// setupRoutes builds the handler tree.
//
// Telemetry paths sit beside the backend and skip the auth, rate limit,
// gzip and timeout layers so probes and scrapes keep working under load.
// Every request still gets recovery, logging, a request id and CORS.
func (s *Server) setupRoutes() http.Handler {
	srvCfg := &s.config.Server
	telemetryCfg := &s.config.Telemetry

	var recorder middleware.RequestRecorder
	if s.opts.Metrics != nil && telemetryCfg.Metrics.Enabled {
		recorder = s.opts.Metrics
	}

	backendMux := http.NewServeMux()
	for _, rt := range s.backend.routes(srvCfg.MaxBodyBytes) {
		backendMux.Handle(rt.pattern, middleware.MetricsMiddleware(recorder, rt.pattern)(rt.handler))
	}

	var backend http.Handler = backendMux
	backend = middleware.TimeoutMiddleware(srvCfg.RequestTimeout)(backend)
	backend = middleware.GzipMiddleware(srvCfg.Compression.Gzip)(backend)
	backend = middleware.RateLimitMiddleware(&srvCfg.RateLimit)(backend)
	backend = middleware.BasicAuthMiddleware(&srvCfg.BasicAuth)(backend)

	mux := http.NewServeMux()
	if recorder != nil {
		mux.Handle(telemetryCfg.Metrics.Path, s.opts.Metrics.Handler())
	}
	if s.opts.Health != nil {
		s.opts.Health.Mount(mux, telemetryCfg.Health.LivenessPath, telemetryCfg.Health.ReadinessPath, s.opts.Version)
	}
	mux.Handle("/", backend)

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(&srvCfg.CORS)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// configureTLS configures TLS settings.
func (s *Server) configureTLS() (*tls.Config, error) {
	tlsCfg := s.config.Server.TLS
	if tlsCfg.CertFile == "" {
		return nil, fmt.Errorf("TLS cert file not specified")
	}
	if tlsCfg.KeyFile == "" {
		return nil, fmt.Errorf("TLS key file not specified")
	}

	if _, err := os.Stat(tlsCfg.CertFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("TLS cert file not found: %s", tlsCfg.CertFile)
	}
	if _, err := os.Stat(tlsCfg.KeyFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("TLS key file not found: %s", tlsCfg.KeyFile)
	}

	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		},
	}, nil
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound address once Start is listening, nil before.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
