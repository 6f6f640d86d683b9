// Package search composes filtering and ranking into the posting search pipeline.
package search

import (
	"context"
	"fmt"

	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/ranking"
	"go.uber.org/zap"
)

// PostingSource supplies postings, newest first.
type PostingSource interface {
	Postings(ctx context.Context) (*jobs.Postings, error)
}

// ProfileSource supplies the active profile of a user. A nil profile with a
// nil error means the user has none.
type ProfileSource interface {
	ActiveProfile(ctx context.Context, userID string) (*jobs.Profile, error)
}

// Engine runs the search pipeline. It holds no state that influences results.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Search filters the postings by the criteria, then ranks the survivors
// against the profile. The profile may be nil.
func (e *Engine) Search(v *jobs.Postings, c filtering.Criteria, profile *jobs.Profile) ([]jobs.ScoredPosting, error) {
	filtered, err := filtering.ByCriteria(e.logger, v, c)
	if err != nil {
		return nil, fmt.Errorf("filter postings: %w", err)
	}

	ranked, err := ranking.Rank(filtered, profile)
	if err != nil {
		return nil, fmt.Errorf("rank postings: %w", err)
	}

	e.logger.Debug("search completed",
		zap.Int("postings", v.Len()),
		zap.Int("results", len(ranked)),
		zap.Bool("ranked_by_profile", profile != nil),
	)

	return ranked, nil
}

// Service fetches postings and profiles from their sources and runs the Engine.
type Service struct {
	engine   *Engine
	postings PostingSource
	profiles ProfileSource
	logger   *zap.Logger
}

// NewService creates a Service. profiles may be nil when no profile source is configured.
func NewService(postings PostingSource, profiles ProfileSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:   NewEngine(logger),
		postings: postings,
		profiles: profiles,
		logger:   logger,
	}
}

// Profile loads the active profile for the user. An empty user id or a
// missing profile source yields no profile.
func (s *Service) Profile(ctx context.Context, userID string) (*jobs.Profile, error) {
	if s.profiles == nil || userID == "" {
		return nil, nil
	}

	profile, err := s.profiles.ActiveProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// Search fetches current postings and runs the pipeline with the given profile.
func (s *Service) Search(ctx context.Context, c filtering.Criteria, profile *jobs.Profile) ([]jobs.ScoredPosting, error) {
	if s.postings == nil {
		return nil, fmt.Errorf("posting source is not configured: %w", jobs.ErrInvalidArgument)
	}

	v, err := s.postings.Postings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}

	s.logger.Debug("postings fetched", zap.Int("count", v.Len()))

	return s.engine.Search(v, c, profile)
}
