package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"naviroute/gateway/pkg/navi"
)

// Observer receives one observation per completed engine call.
type Observer interface {
	ObserveEngineCall(code int32, duration time.Duration)
}

// Config sizes the engine worker pool.
type Config struct {
	// Workers is the number of goroutines allowed inside the engine at once.
	Workers int

	// QueueSize bounds the number of calls waiting for a worker.
	QueueSize int

	// StopTimeout bounds how long Stop waits for in-flight calls.
	StopTimeout time.Duration

	// Registerer, when set, receives the pool metrics.
	Registerer prometheus.Registerer

	// Namespace and Subsystem prefix the pool metric names.
	Namespace string
	Subsystem string
}

// Gateway is the handle to the native routing engine. All blocking engine
// calls run on its worker pool.
type Gateway struct {
	binding     Binding
	pool        *Pool[*call]
	observer    Observer
	stopTimeout time.Duration
	logger      *slog.Logger

	initMu      sync.Mutex
	initCalled  bool
	initialized atomic.Bool
}

// call is one queued FindPath invocation. done has capacity 1 so the worker
// never blocks on a caller that stopped waiting.
type call struct {
	request []byte
	done    chan outcome
}

type outcome struct {
	result navi.RouteResult
	err    error
}

// New creates a gateway over binding. observer may be nil.
func New(binding Binding, cfg Config, observer Observer) *Gateway {
	if binding == nil {
		binding = DefaultBinding()
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 30 * time.Second
	}

	g := &Gateway{
		binding:     binding,
		observer:    observer,
		stopTimeout: cfg.StopTimeout,
		logger:      slog.Default().With("component", "engine"),
	}

	var opts []PoolOption[*call]
	if cfg.Registerer != nil {
		opts = append(opts, WithRegisterer[*call](cfg.Registerer, cfg.Namespace, cfg.Subsystem))
	}
	g.pool = NewPool(cfg.Workers, cfg.QueueSize, g.process, opts...)

	return g
}

// Initialize loads the engine configuration. It may be called once; later
// calls return ErrAlreadyInitialized whatever the first outcome was.
func (g *Gateway) Initialize(configPath string) error {
	g.initMu.Lock()
	defer g.initMu.Unlock()

	if g.initCalled {
		return ErrAlreadyInitialized
	}
	g.initCalled = true

	start := time.Now()
	code := g.binding.Init(configPath)
	if code != 0 {
		g.logger.Error("engine initialization failed",
			"config_path", configPath,
			"status", code,
		)
		return &navi.EngineError{Op: "initialize", Code: code}
	}

	g.initialized.Store(true)
	g.logger.Info("engine initialized",
		"config_path", configPath,
		"duration", time.Since(start),
	)
	return nil
}

// Initialized reports whether Initialize succeeded.
func (g *Gateway) Initialized() bool {
	return g.initialized.Load()
}

// Start launches the worker pool.
func (g *Gateway) Start(ctx context.Context) error {
	if err := g.pool.Start(ctx); err != nil {
		return err
	}
	g.logger.Info("engine worker pool started",
		"workers", g.pool.workers,
		"queue_size", g.pool.queueSize,
	)
	return nil
}

// Stop drains queued calls and stops the workers.
func (g *Gateway) Stop() error {
	err := g.pool.Stop(g.stopTimeout)
	if err != nil {
		g.logger.Warn("engine worker pool did not drain", "error", err)
	}
	return err
}

// Running reports whether the pool accepts calls.
func (g *Gateway) Running() bool {
	return g.pool.Running()
}

// Stats returns worker pool statistics.
func (g *Gateway) Stats() PoolStats {
	return g.pool.Stats()
}

// HealthCheck reports an error unless the engine is initialized and its
// pool accepts work with at least one live worker.
func (g *Gateway) HealthCheck(ctx context.Context) error {
	if !g.initialized.Load() {
		return ErrNotInitialized
	}
	if !g.pool.Running() {
		return ErrPoolNotStarted
	}
	if g.pool.LiveWorkers() == 0 {
		return ErrNoLiveWorkers
	}
	return ctx.Err()
}

// FindPath computes a route for an encoded RoutePlanServerParameter.
//
// A nonzero engine status is returned as *navi.EngineError. If ctx ends
// first, ctx.Err() is returned and the call still completes on its worker.
func (g *Gateway) FindPath(ctx context.Context, request []byte) (navi.RouteResult, error) {
	if !g.initialized.Load() {
		return navi.RouteResult{}, ErrNotInitialized
	}

	c := &call{
		request: request,
		done:    make(chan outcome, 1),
	}
	if err := g.pool.Submit(c); err != nil {
		return navi.RouteResult{}, err
	}

	select {
	case out := <-c.done:
		return out.result, out.err
	case <-ctx.Done():
		g.logger.Warn("caller stopped waiting for engine", "error", ctx.Err())
		return navi.RouteResult{}, ctx.Err()
	}
}

func (g *Gateway) process(_ context.Context, c *call) error {
	result, err := g.invoke(c.request)
	c.done <- outcome{result: result, err: err}
	return err
}

// invoke performs one blocking engine call and takes ownership of the
// returned buffers.
func (g *Gateway) invoke(request []byte) (navi.RouteResult, error) {
	start := time.Now()
	code, payload, id := g.binding.FindPath(request, FormatProtobuf)
	duration := time.Since(start)

	if g.observer != nil {
		g.observer.ObserveEngineCall(code, duration)
	}

	if code != 0 {
		g.logger.Debug("engine returned failure status",
			"status", code,
			"duration", duration,
		)
		return navi.RouteResult{}, &navi.EngineError{Op: "find_path", Code: code}
	}

	defer payload.Release()
	defer id.Release()

	return navi.RouteResult{
		ID:      id.String(),
		Payload: payload.String(),
	}, nil
}
