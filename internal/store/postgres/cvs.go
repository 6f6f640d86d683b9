package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/spigell/jobmatch/internal/jobs"
)

const activeProfileQuery = `SELECT id, skills FROM cvs WHERE user_id = $1 ORDER BY updated_at DESC LIMIT 1`

// CVRepo reads profiles from the cvs table.
type CVRepo struct {
	db *sql.DB
}

// ActiveProfile returns the skills of the user's most recently updated CV.
// It returns nil without an error when the user has no CV.
func (r *CVRepo) ActiveProfile(ctx context.Context, userID string) (*jobs.Profile, error) {
	var (
		profile jobs.Profile
		skills  []string
	)

	err := r.db.QueryRowContext(ctx, activeProfileQuery, userID).Scan(&profile.CVID, pq.Array(&skills))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active cv: %w", err)
	}

	if skills == nil {
		skills = []string{}
	}
	profile.Skills = skills

	return &profile, nil
}
