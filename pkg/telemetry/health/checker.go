package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status values reported by checks and by the aggregate.
const (
	StatusOK        = "ok"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a dependency is usable. It returns nil when
// healthy.
type CheckFunc func(ctx context.Context) error

// ReportFunc receives the outcome of every readiness check. The run command
// uses it to keep the upstream health gauges current.
type ReportFunc func(name string, healthy bool)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// HealthStatus is the aggregate answer of a probe.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Ready reports whether every check passed.
func (s HealthStatus) Ready() bool {
	return s.Status == StatusReady
}

// ErrCheckTimeout is reported when a check does not return within the
// check timeout.
var ErrCheckTimeout = errors.New("health check timeout")

// Checker runs the readiness checks of the gateway's dependencies: the
// cache, the POI service, the routing engine and the journal.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
	report ReportFunc

	checkTimeout time.Duration
}

// New creates a checker. A zero timeout defaults to 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers check under name, replacing any previous one.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes the check registered under name.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// OnReport sets the function that receives each check outcome.
func (c *Checker) OnReport(fn ReportFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = fn
}

// CheckLiveness reports that the process is serving requests.
func (c *Checker) CheckLiveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
	}
}

// CheckReadiness runs every registered check concurrently. The aggregate is
// "ready" when all pass and "degraded" otherwise.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	report := c.report
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)
			if report != nil {
				report(name, result.Status == StatusOK)
			}

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status != StatusOK {
			status = StatusDegraded
		}
	}

	return HealthStatus{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return CheckResult{
				Status:   StatusUnhealthy,
				Message:  err.Error(),
				Duration: time.Since(start),
			}
		}
		return CheckResult{
			Status:   StatusOK,
			Duration: time.Since(start),
		}

	case <-checkCtx.Done():
		return CheckResult{
			Status:   StatusUnhealthy,
			Message:  ErrCheckTimeout.Error(),
			Duration: time.Since(start),
		}
	}
}

// ListChecks returns the names of all registered checks.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}

	return names
}
