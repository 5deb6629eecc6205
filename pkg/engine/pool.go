package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pool is a fixed set of goroutines reserved for blocking work. Work is
// queued on a bounded channel; Submit never blocks.
type Pool[T any] struct {
	// Configuration
	workers   int
	queueSize int
	processor func(context.Context, T) error

	// Runtime state
	workChan chan T
	metrics  *poolMetrics
	wg       *sync.WaitGroup

	// Lifecycle management
	lifecycleMu sync.Mutex
	started     bool
	stopped     bool

	// Statistics (atomic)
	submitted int64
	processed int64
	failed    int64
	dropped   int64
	busy      int64
	live      int64
}

// poolMetrics holds Prometheus metrics for pool monitoring.
type poolMetrics struct {
	queueDepth     prometheus.Gauge
	busyWorkers    prometheus.Gauge
	submitted      prometheus.Counter
	dropped        prometheus.Counter
	processingTime *prometheus.HistogramVec
}

// PoolOption configures a Pool.
type PoolOption[T any] func(*Pool[T])

// WithRegisterer registers the pool's metrics under namespace_subsystem_*.
func WithRegisterer[T any](reg prometheus.Registerer, namespace, subsystem string) PoolOption[T] {
	return func(p *Pool[T]) {
		if reg == nil {
			return
		}
		p.metrics = newPoolMetrics(reg, namespace, subsystem)
	}
}

// NewPool creates a pool. Non-positive sizes fall back to defaults.
func NewPool[T any](workers, queueSize int, processor func(context.Context, T) error, opts ...PoolOption[T]) *Pool[T] {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if processor == nil {
		panic(ErrNilProcessor)
	}

	pool := &Pool[T]{
		workers:   workers,
		queueSize: queueSize,
		processor: processor,
		workChan:  make(chan T, queueSize),
	}

	for _, opt := range opts {
		opt(pool)
	}

	return pool
}

func newPoolMetrics(reg prometheus.Registerer, namespace, subsystem string) *poolMetrics {
	m := &poolMetrics{
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "engine_queue_depth",
			Help:      "Current engine worker pool queue depth",
		}),
		busyWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "engine_busy_workers",
			Help:      "Engine workers currently inside a blocking call",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "engine_submitted_total",
			Help:      "Total engine calls submitted to the pool",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "engine_dropped_total",
			Help:      "Total engine calls rejected because the queue was full",
		}),
		processingTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "engine_processing_duration_seconds",
			Help:      "Time spent inside engine calls",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"status"}),
	}

	reg.MustRegister(m.queueDepth, m.busyWorkers, m.submitted, m.dropped, m.processingTime)
	return m
}

// Submit queues work. It returns ErrQueueFull instead of blocking.
func (p *Pool[T]) Submit(work T) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if !p.started {
		return ErrPoolNotStarted
	}
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.workChan <- work:
		atomic.AddInt64(&p.submitted, 1)
		if p.metrics != nil {
			p.metrics.submitted.Inc()
			p.metrics.queueDepth.Set(float64(len(p.workChan)))
		}
		return nil
	default:
		atomic.AddInt64(&p.dropped, 1)
		if p.metrics != nil {
			p.metrics.dropped.Inc()
		}
		return ErrQueueFull
	}
}

// Start launches the workers. Processors receive ctx without its
// cancellation; workers run until Stop closes the queue and it drains.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.started {
		return ErrPoolAlreadyStarted
	}

	workerCtx := context.WithoutCancel(ctx)
	p.wg = &sync.WaitGroup{}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		atomic.AddInt64(&p.live, 1)
		go p.worker(workerCtx)
	}

	p.started = true
	return nil
}

// Stop closes the queue and waits for queued work to drain.
func (p *Pool[T]) Stop(timeout time.Duration) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if !p.started || p.stopped {
		return nil
	}

	close(p.workChan)
	p.stopped = true

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}

// Running reports whether the pool accepts work.
func (p *Pool[T]) Running() bool {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	return p.started && !p.stopped
}

// LiveWorkers returns the number of worker goroutines that have not exited.
func (p *Pool[T]) LiveWorkers() int64 {
	return atomic.LoadInt64(&p.live)
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Workers:     p.workers,
		QueueSize:   p.queueSize,
		QueueDepth:  len(p.workChan),
		LiveWorkers: atomic.LoadInt64(&p.live),
		BusyWorkers: atomic.LoadInt64(&p.busy),
		Submitted:   atomic.LoadInt64(&p.submitted),
		Processed:   atomic.LoadInt64(&p.processed),
		Failed:      atomic.LoadInt64(&p.failed),
		Dropped:     atomic.LoadInt64(&p.dropped),
	}
}

// PoolStats represents worker pool statistics.
type PoolStats struct {
	Workers     int   `json:"workers"`
	QueueSize   int   `json:"queue_size"`
	QueueDepth  int   `json:"queue_depth"`
	LiveWorkers int64 `json:"live_workers"`
	BusyWorkers int64 `json:"busy_workers"`
	Submitted   int64 `json:"submitted"`
	Processed   int64 `json:"processed"`
	Failed      int64 `json:"failed"`
	Dropped     int64 `json:"dropped"`
}

func (p *Pool[T]) worker(ctx context.Context) {
	defer p.wg.Done()
	defer atomic.AddInt64(&p.live, -1)

	for work := range p.workChan {
		p.process(ctx, work)
	}
}

func (p *Pool[T]) process(ctx context.Context, work T) {
	atomic.AddInt64(&p.busy, 1)
	if p.metrics != nil {
		p.metrics.busyWorkers.Inc()
		p.metrics.queueDepth.Set(float64(len(p.workChan)))
	}

	start := time.Now()
	err := p.processor(ctx, work)
	duration := time.Since(start)

	atomic.AddInt64(&p.busy, -1)
	atomic.AddInt64(&p.processed, 1)
	if err != nil {
		atomic.AddInt64(&p.failed, 1)
	}

	if p.metrics != nil {
		p.metrics.busyWorkers.Dec()
		status := "success"
		if err != nil {
			status = "error"
		}
		p.metrics.processingTime.WithLabelValues(status).Observe(duration.Seconds())
	}
}
