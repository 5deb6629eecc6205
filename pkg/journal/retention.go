package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig contains configuration for journal pruning.
type RetentionConfig struct {
	// RetentionDays is how long entries are kept. 0 keeps them forever.
	RetentionDays int

	// PruneSchedule is a standard cron expression, e.g. "0 3 * * *".
	// Empty disables scheduled pruning.
	PruneSchedule string
}

// Pruner deletes entries older than the retention period.
type Pruner struct {
	storage Storage
	config  RetentionConfig
	now     func() time.Time
	logger  *slog.Logger
}

// NewPruner creates a pruner over storage.
func NewPruner(storage Storage, config RetentionConfig) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		now:     time.Now,
		logger:  slog.Default().With("component", "journal.retention"),
	}
}

// Prune deletes expired entries and returns how many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.storage.Delete(ctx, &Query{Until: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned journal entries",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	} else {
		p.logger.Debug("no journal entries pruned", "cutoff_time", cutoff)
	}
	return deleted, nil
}

// Scheduler runs a Pruner on its cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "journal.scheduler"),
	}
}

// Start registers the prune job and starts the cron runner. It stops on its
// own when ctx is cancelled. An empty schedule does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
	}
}

// Stop stops the cron runner and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled prune, or nil when none is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
