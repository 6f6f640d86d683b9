// Package scheduler removes stale postings on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultSpec   = "@every 24h"
	DefaultMaxAge = 14 * 24 * time.Hour
)

// Remover deletes postings published before the cutoff.
type Remover interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Invalidator drops cached postings after a cleanup removed rows.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Config struct {
	Spec   string        `mapstructure:"schedule"`
	MaxAge time.Duration `mapstructure:"max-age"`
}

// Scheduler wraps robfig/cron and runs the cleanup job.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	maxAge  time.Duration
	remover Remover
	cache   Invalidator
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a Scheduler. cache may be nil.
func New(remover Remover, cache Invalidator, cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	spec := cfg.Spec
	if spec == "" {
		spec = DefaultSpec
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	return &Scheduler{
		cron:    cron.New(),
		spec:    spec,
		maxAge:  maxAge,
		remover: remover,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// Start registers the cleanup job, runs it once right away and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cleanup scheduler started", zap.String("spec", s.spec), zap.Duration("max_age", s.maxAge))

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("cleanup failed", zap.Error(err))
	}

	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cleanup scheduler stopped")
}

// RunOnce removes postings older than the configured age.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.maxAge)

	removed, err := s.remover.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("old postings removed", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))

	if removed > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}

	return removed, nil
}
