package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes the catalog on a cron schedule so the TTL rarely
// expires on a caller's request path. Refreshes triggered here go through
// the same merge and fallback logic as on-demand ones.
type Scheduler struct {
	service  *Service
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a catalog refresh scheduler.
//
// Common cron expressions:
//   - "*/5 * * * *"  - Every 5 minutes (matches the default TTL)
//   - "0 * * * *"    - Hourly
func NewScheduler(service *Service, schedule string) *Scheduler {
	return &Scheduler{
		service:  service,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "catalog.scheduler"),
	}
}

// Start begins scheduled refreshing. If the schedule is empty, the
// scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("refresh schedule not configured, skipping scheduler")
		return nil
	}

	// Validate cron expression
	_, err := cron.ParseStandard(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	// Add cron job
	_, err = s.cron.AddFunc(s.schedule, func() {
		s.runRefresh(ctx)
	})

	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	// Start cron scheduler
	s.cron.Start()
	s.running = true

	s.logger.Info("catalog refresh scheduler started",
		"schedule", s.schedule,
	)

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runRefresh executes one refresh cycle.
func (s *Scheduler) runRefresh(ctx context.Context) {
	s.logger.Debug("starting scheduled catalog refresh")

	models, err := s.service.Refresh(ctx)
	if err != nil {
		s.logger.Warn("scheduled catalog refresh fell back to cached models",
			"error", err,
			"model_count", len(models),
		)
		return
	}

	s.logger.Debug("scheduled catalog refresh completed",
		"model_count", len(models),
	)
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("catalog refresh scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled refresh time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
