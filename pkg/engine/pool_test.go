package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewPool_Defaults(t *testing.T) {
	processor := func(context.Context, int) error { return nil }

	pool := NewPool(3, 10, processor)
	if pool.workers != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.workers)
	}
	if pool.queueSize != 10 {
		t.Errorf("Expected queue size 10, got %d", pool.queueSize)
	}

	pool = NewPool(0, 0, processor)
	if pool.workers != 4 {
		t.Errorf("Expected default 4 workers, got %d", pool.workers)
	}
	if pool.queueSize != 256 {
		t.Errorf("Expected default queue size 256, got %d", pool.queueSize)
	}
}

func TestNewPool_NilProcessor(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for nil processor")
		}
	}()
	NewPool[int](1, 1, nil)
}

func TestPool_StartStop(t *testing.T) {
	var processed int64
	pool := NewPool(2, 10, func(context.Context, int) error {
		atomic.AddInt64(&processed, 1)
		return nil
	})

	if err := pool.Submit(1); !errors.Is(err, ErrPoolNotStarted) {
		t.Errorf("Expected ErrPoolNotStarted before Start, got %v", err)
	}

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	if err := pool.Start(ctx); !errors.Is(err, ErrPoolAlreadyStarted) {
		t.Errorf("Expected ErrPoolAlreadyStarted, got %v", err)
	}
	if !pool.Running() {
		t.Error("Expected pool to be running")
	}

	for i := 0; i < 5; i++ {
		if err := pool.Submit(i); err != nil {
			t.Errorf("Failed to submit work %d: %v", i, err)
		}
	}

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if got := atomic.LoadInt64(&processed); got != 5 {
		t.Errorf("Expected 5 processed items, got %d", got)
	}
	if err := pool.Submit(99); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped after Stop, got %v", err)
	}
	if pool.Running() {
		t.Error("Expected pool to be stopped")
	}

	// Stopping twice is a no-op.
	if err := pool.Stop(time.Second); err != nil {
		t.Errorf("Second Stop returned %v", err)
	}
}

func TestPool_QueueFull(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	pool := NewPool(1, 1, func(context.Context, int) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	if err := pool.Submit(1); err != nil {
		t.Fatalf("Submit 1: %v", err)
	}
	<-started

	if err := pool.Submit(2); err != nil {
		t.Fatalf("Submit 2: %v", err)
	}
	if err := pool.Submit(3); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}

	stats := pool.Stats()
	if stats.Dropped != 1 {
		t.Errorf("Expected 1 dropped, got %d", stats.Dropped)
	}
	if stats.BusyWorkers != 1 {
		t.Errorf("Expected 1 busy worker, got %d", stats.BusyWorkers)
	}

	close(release)
	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}
	if got := pool.Stats().Processed; got != 2 {
		t.Errorf("Expected 2 processed, got %d", got)
	}
}

func TestPool_StopTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	pool := NewPool(1, 1, func(context.Context, int) error {
		<-release
		return nil
	})
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	if err := pool.Submit(1); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := pool.Stop(20 * time.Millisecond); !errors.Is(err, ErrStopTimeout) {
		t.Errorf("Expected ErrStopTimeout, got %v", err)
	}
}

func TestPool_FailedCount(t *testing.T) {
	pool := NewPool(1, 4, func(_ context.Context, n int) error {
		if n%2 == 0 {
			return errors.New("even")
		}
		return nil
	})
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := pool.Submit(i); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	stats := pool.Stats()
	if stats.Processed != 4 || stats.Failed != 2 {
		t.Errorf("Expected 4 processed and 2 failed, got %+v", stats)
	}
}

func TestPool_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	pool := NewPool(1, 4, func(context.Context, int) error { return nil },
		WithRegisterer[int](reg, "naviroute", "test"))

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := pool.Submit(i); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if got := testutil.ToFloat64(pool.metrics.submitted); got != 3 {
		t.Errorf("Expected submitted counter 3, got %v", got)
	}
	if got := testutil.ToFloat64(pool.metrics.busyWorkers); got != 0 {
		t.Errorf("Expected busy workers gauge 0, got %v", got)
	}
}

func TestPool_StartContextCancelled(t *testing.T) {
	var processed int64
	pool := NewPool(1, 4, func(ctx context.Context, _ int) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		atomic.AddInt64(&processed, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	cancel()

	if err := pool.Submit(1); err != nil {
		t.Fatalf("Submit after cancel: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&processed) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("work submitted after the start context ended was never processed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := pool.LiveWorkers(); got != 1 {
		t.Errorf("Expected 1 live worker, got %d", got)
	}

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}
	if got := pool.LiveWorkers(); got != 0 {
		t.Errorf("Expected 0 live workers after Stop, got %d", got)
	}
}
