package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/jobmatch/internal/session"
)

const (
	applicationPending = "pending"

	saveJobQuery   = `INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2) ON CONFLICT (user_id, job_id) DO NOTHING`
	unsaveJobQuery = `DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`

	applyQuery = `INSERT INTO applications (id, user_id, job_id, cv_id, status, message) VALUES ($1, $2, $3, $4, $5, $6)`

	savedIDsQuery   = `SELECT job_id FROM saved_jobs WHERE user_id = $1`
	appliedIDsQuery = `SELECT job_id FROM applications WHERE user_id = $1 AND job_id IS NOT NULL`

	applicationsQuery = `SELECT a.id, a.job_id, COALESCE(j.title, ''), COALESCE(j.company, ''), a.cv_id, a.status, a.applied_at
FROM applications a LEFT JOIN jobs j ON j.id = a.job_id
WHERE a.user_id = $1
ORDER BY a.applied_at DESC`
)

// Application is a stored application joined with its posting. PostingID,
// Title and Company are empty once cleanup removed the posting.
type Application struct {
	ID        string    `json:"id"`
	PostingID string    `json:"posting_id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	CVID      string    `json:"cv_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// RelationRepo stores saved jobs and applications. It implements session.Store.
type RelationRepo struct {
	db *sql.DB
}

var _ session.Store = (*RelationRepo)(nil)

func (r *RelationRepo) SaveJob(ctx context.Context, userID, postingID string) error {
	if _, err := r.db.ExecContext(ctx, saveJobQuery, userID, postingID); err != nil {
		return fmt.Errorf("insert saved job: %w", err)
	}
	return nil
}

func (r *RelationRepo) UnsaveJob(ctx context.Context, userID, postingID string) error {
	if _, err := r.db.ExecContext(ctx, unsaveJobQuery, userID, postingID); err != nil {
		return fmt.Errorf("delete saved job: %w", err)
	}
	return nil
}

func (r *RelationRepo) ApplyToJob(ctx context.Context, a session.Application) error {
	_, err := r.db.ExecContext(ctx, applyQuery,
		uuid.NewString(), a.UserID, a.PostingID, a.CVID, applicationPending, a.Message,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *RelationRepo) SavedJobIDs(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, savedIDsQuery, userID)
}

func (r *RelationRepo) AppliedJobIDs(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, appliedIDsQuery, userID)
}

// Applications lists the user's applications, newest first.
func (r *RelationRepo) Applications(ctx context.Context, userID string) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, applicationsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	applications := make([]Application, 0)
	for rows.Next() {
		var (
			a         Application
			postingID sql.NullString
		)
		if err := rows.Scan(&a.ID, &postingID, &a.Title, &a.Company, &a.CVID, &a.Status, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		a.PostingID = postingID.String
		applications = append(applications, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return applications, nil
}

func (r *RelationRepo) ids(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Removed reports whether the posting behind the application no longer exists.
func (a Application) Removed() bool {
	return a.PostingID == ""
}
