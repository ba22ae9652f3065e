// Package worker runs periodic housekeeping in the server process.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jrmart12/nayos/internal/snapshot"
)

// Config holds sweeper configuration.
type Config struct {
	// WorkerID uniquely identifies this worker instance in logs.
	WorkerID string

	// Interval is how often the sweep runs.
	Interval time.Duration

	// MaxAge is how long an untouched snapshot survives. Matches the
	// session cookie lifetime so a shopper's cart outlives their browser
	// session but not by much.
	MaxAge time.Duration
}

// Sweeper purges stale session snapshots on a timer. Carts and remembered
// customer details from abandoned sessions are never deleted by their owners,
// so the store grows without bound unless something sweeps it.
type Sweeper struct {
	config Config
	store  snapshot.Purger
	logger *slog.Logger
}

// NewSweeper creates a snapshot sweeper.
func NewSweeper(store snapshot.Purger, logger *slog.Logger, config Config) *Sweeper {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("sweeper-%s", uuid.New().String()[:8])
	}
	if config.Interval == 0 {
		config.Interval = 1 * time.Hour
	}
	if config.MaxAge == 0 {
		config.MaxAge = 30 * 24 * time.Hour
	}

	return &Sweeper{
		config: config,
		store:  store,
		logger: logger,
	}
}

// Start sweeps until the context is cancelled. The first sweep runs after one
// interval, not at startup, so a crash-looping process cannot hammer the store.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("snapshot sweeper starting",
		"worker_id", s.config.WorkerID,
		"interval", s.config.Interval,
		"max_age", s.config.MaxAge,
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot sweeper shutting down", "worker_id", s.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	purged, err := s.store.PurgeStale(ctx, s.config.MaxAge)
	if err != nil {
		s.logger.Error("snapshot sweep failed",
			"worker_id", s.config.WorkerID,
			"error", err,
		)
		return
	}
	if purged > 0 {
		s.logger.Info("purged stale snapshots",
			"worker_id", s.config.WorkerID,
			"count", purged,
		)
	}
}
