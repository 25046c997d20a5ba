package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig contains configuration for the retention pruner.
type RetentionConfig struct {
	// RetentionDays is the number of days to retain chats.
	// 0 means keep chats forever (no age-based pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables scheduling.
	PruneSchedule string

	// MaxChats is the maximum number of chats to keep.
	// 0 means unlimited.
	MaxChats int64
}

// DefaultRetentionConfig returns the default retention configuration.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		RetentionDays: 90,
		PruneSchedule: "0 3 * * *",
		MaxChats:      0,
	}
}

// Pruner enforces retention policy on stored chats, either on demand via
// Prune or on a cron schedule via Start.
type Pruner struct {
	store   Store
	config  *RetentionConfig
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewPruner creates a retention pruner over the given store.
func NewPruner(store Store, config *RetentionConfig) *Pruner {
	if config == nil {
		config = DefaultRetentionConfig()
	}

	return &Pruner{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "history.retention"),
	}
}

// Prune deletes chats older than the retention period or exceeding the
// maximum chat count.
//
// Pruning happens in two phases:
//  1. Age-based: delete chats not updated within retention_days
//  2. Count-based: if total chats > max_chats, delete oldest
//
// Returns the total number of chats deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	// Phase 1: prune by retention period
	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.DeleteChatsOlderThan(ctx, cutoff)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		if deleted > 0 {
			p.logger.Info("pruned chats by age",
				"deleted_count", deleted,
				"retention_days", p.config.RetentionDays,
			)
		}
	}

	// Phase 2: prune by max chat count
	if p.config.MaxChats > 0 {
		count, err := p.store.CountChats(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		if excess := count - p.config.MaxChats; excess > 0 {
			deleted, err := p.store.DeleteOldestChats(ctx, excess)
			if err != nil {
				return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
			}
			totalDeleted += deleted
			p.logger.Info("pruned chats by count",
				"deleted_count", deleted,
				"max_chats", p.config.MaxChats,
			)
		}
	}

	return totalDeleted, nil
}

// Start begins scheduled pruning based on the configured cron expression.
// If PruneSchedule is empty, Start does nothing.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.PruneSchedule == "" {
		p.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	// Validate cron expression
	if _, err := cron.ParseStandard(p.config.PruneSchedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.config.PruneSchedule, err)
	}

	_, err := p.cron.AddFunc(p.config.PruneSchedule, func() {
		if _, err := p.Prune(ctx); err != nil {
			p.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("history retention scheduler started",
		"schedule", p.config.PruneSchedule,
		"retention_days", p.config.RetentionDays,
		"max_chats", p.config.MaxChats,
	)

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Stop stops scheduled pruning and waits for a running job to complete.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil && p.running {
		ctx := p.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		p.running = false
		p.logger.Info("history retention scheduler stopped")
	}
}

// IsRunning returns true if scheduled pruning is active.
func (p *Pruner) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}
