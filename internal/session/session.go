// Package session keeps per-user state between sign-in and sign-out: the
// active profile and the user's saved and applied postings.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/jobmatch/internal/jobs"
	logging "github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/search"
	"go.uber.org/zap"
)

var (
	// ErrSignedOut is returned by operations on a session after SignOut.
	ErrSignedOut = errors.New("session is signed out")
	// ErrNoCV is returned when applying without an active CV.
	ErrNoCV = errors.New("create a CV first to apply for jobs")
)

// Store persists the (user, posting) relations. Calls are forwarded as is;
// the session neither retries nor queues them.
type Store interface {
	SaveJob(ctx context.Context, userID, postingID string) error
	UnsaveJob(ctx context.Context, userID, postingID string) error
	ApplyToJob(ctx context.Context, application Application) error
	SavedJobIDs(ctx context.Context, userID string) ([]string, error)
	AppliedJobIDs(ctx context.Context, userID string) ([]string, error)
}

// Application is the payload of an apply action.
type Application struct {
	UserID    string
	PostingID string
	CVID      string
	Message   string
}

// Session is created on sign-in and cleared on sign-out.
type Session struct {
	userID    string
	profile   *jobs.Profile
	relations *Relations
	store     Store
	logger    *zap.Logger
}

// SignIn loads the user's active profile and relations. profiles may be nil,
// in which case the session has no profile.
func SignIn(ctx context.Context, userID string, profiles search.ProfileSource, store Store, logger *zap.Logger) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", jobs.ErrInvalidArgument)
	}
	if store == nil {
		return nil, fmt.Errorf("relation store is required: %w", jobs.ErrInvalidArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var profile *jobs.Profile
	if profiles != nil {
		var err error
		profile, err = profiles.ActiveProfile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}

	saved, err := store.SavedJobIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load saved jobs: %w", err)
	}

	applied, err := store.AppliedJobIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	s := &Session{
		userID:    userID,
		profile:   profile,
		relations: NewRelations(saved, applied),
		store:     store,
		logger:    logging.WithSession(logger, userID, cvID(profile)),
	}

	s.logger.Debug("signed in",
		zap.Bool("has_profile", profile != nil),
		zap.Int("saved", len(saved)),
		zap.Int("applied", len(applied)),
	)

	return s, nil
}

func cvID(profile *jobs.Profile) string {
	if profile == nil {
		return ""
	}
	return profile.CVID
}

// SignOut clears all session state.
func (s *Session) SignOut() {
	if s.userID == "" {
		return
	}
	s.logger.Debug("signed out")
	s.userID = ""
	s.profile = nil
	s.relations = NewRelations(nil, nil)
}

func (s *Session) Active() bool { return s.userID != "" }

func (s *Session) UserID() string { return s.userID }

// Profile returns the active profile or nil.
func (s *Session) Profile() *jobs.Profile { return s.profile }

// Relations returns a copy of the current relations.
func (s *Session) Relations() *Relations { return s.relations.Clone() }

// Save marks the posting as saved for the user.
func (s *Session) Save(ctx context.Context, postingID string) error {
	if err := s.check(postingID); err != nil {
		return err
	}
	if err := s.store.SaveJob(ctx, s.userID, postingID); err != nil {
		return fmt.Errorf("save job %s: %w", postingID, err)
	}
	s.relations.saved[postingID] = struct{}{}
	s.logger.Info("job saved", zap.String("posting_id", postingID))
	return nil
}

// Unsave removes the posting from the user's saved jobs.
func (s *Session) Unsave(ctx context.Context, postingID string) error {
	if err := s.check(postingID); err != nil {
		return err
	}
	if err := s.store.UnsaveJob(ctx, s.userID, postingID); err != nil {
		return fmt.Errorf("unsave job %s: %w", postingID, err)
	}
	delete(s.relations.saved, postingID)
	s.logger.Info("job unsaved", zap.String("posting_id", postingID))
	return nil
}

// ToggleSave saves an unsaved posting and unsaves a saved one. It reports the new state.
func (s *Session) ToggleSave(ctx context.Context, postingID string) (bool, error) {
	if s.relations.IsSaved(postingID) {
		return false, s.Unsave(ctx, postingID)
	}
	return true, s.Save(ctx, postingID)
}

// Apply submits an application with the active CV. message may be empty.
func (s *Session) Apply(ctx context.Context, postingID, message string) error {
	if err := s.check(postingID); err != nil {
		return err
	}
	if s.profile == nil || s.profile.CVID == "" {
		return ErrNoCV
	}

	application := Application{
		UserID:    s.userID,
		PostingID: postingID,
		CVID:      s.profile.CVID,
		Message:   message,
	}
	if err := s.store.ApplyToJob(ctx, application); err != nil {
		return fmt.Errorf("apply to job %s: %w", postingID, err)
	}
	s.relations.applied[postingID] = struct{}{}
	s.logger.Info("applied to job",
		zap.String("posting_id", postingID),
		zap.String("cv_id", s.profile.CVID),
	)
	return nil
}

// Join attaches the user's relation flags to search results.
func (s *Session) Join(results []jobs.ScoredPosting) []View {
	return s.relations.Join(results)
}

func (s *Session) check(postingID string) error {
	if !s.Active() {
		return ErrSignedOut
	}
	if strings.TrimSpace(postingID) == "" {
		return fmt.Errorf("posting id is required: %w", jobs.ErrInvalidArgument)
	}
	return nil
}
