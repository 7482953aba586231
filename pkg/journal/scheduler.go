package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/waypoint/pkg/telemetry/logging"
)

// Scheduler prunes the journal on a cron schedule.
type Scheduler struct {
	store     *Store
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *logging.Logger

	mu      sync.Mutex
	running bool
	now     func() time.Time
}

// NewScheduler creates a scheduler that removes entries older than
// retention. schedule is a standard five-field cron expression.
func NewScheduler(store *Store, retention time.Duration, schedule string, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(),
		logger:    logger.With("component", "journal.scheduler"),
		now:       time.Now,
	}
}

// Start registers the prune job and starts the cron runner. It stops when
// ctx is done. An empty schedule disables pruning.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.schedule == "" || s.retention <= 0 {
		s.logger.Info("Journal pruning disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.runPruning(ctx) }); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Journal pruning scheduled", "schedule", s.schedule, "retention", s.retention.String())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// PruneNow deletes entries older than the retention period.
func (s *Scheduler) PruneNow(ctx context.Context) (int64, error) {
	return s.store.Prune(ctx, s.now().Add(-s.retention))
}

func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.PruneNow(ctx)
	if err != nil {
		s.logger.Error("Journal pruning failed", "error", err)
		return
	}
	s.logger.Info("Journal pruning completed", "deleted", deleted)
}

// Stop halts the cron runner and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Journal pruning stopped")
}

// IsRunning reports whether the cron runner is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled prune, or nil when not scheduled.
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
