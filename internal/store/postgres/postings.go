package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/spigell/jobmatch/internal/jobs"
)

const (
	postingColumns = `id, title, company, location, type, salary, description, requirements, posted_at, apply_url`

	listPostingsQuery = `SELECT ` + postingColumns + ` FROM jobs ORDER BY posted_at DESC`

	savedPostingsQuery = `SELECT j.id, j.title, j.company, j.location, j.type, j.salary, j.description, j.requirements, j.posted_at, j.apply_url
FROM saved_jobs s JOIN jobs j ON j.id = s.job_id
WHERE s.user_id = $1
ORDER BY s.created_at DESC`

	insertPostingQuery = `INSERT INTO jobs (id, title, company, location, type, salary, description, requirements, posted_at, apply_url, source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO NOTHING`

	deleteOldPostingsQuery = `DELETE FROM jobs WHERE posted_at < $1`
)

// PostingRepo reads and writes the jobs table.
type PostingRepo struct {
	db *sql.DB
}

// Postings returns every stored posting, newest first.
func (r *PostingRepo) Postings(ctx context.Context) (*jobs.Postings, error) {
	rows, err := r.db.QueryContext(ctx, listPostingsQuery)
	if err != nil {
		return nil, fmt.Errorf("query postings: %w", err)
	}
	defer rows.Close()

	return scanPostings(rows)
}

// SavedPostings returns the postings the user saved, most recently saved first.
func (r *PostingRepo) SavedPostings(ctx context.Context, userID string) (*jobs.Postings, error) {
	rows, err := r.db.QueryContext(ctx, savedPostingsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query saved postings: %w", err)
	}
	defer rows.Close()

	return scanPostings(rows)
}

// Insert stores postings in a single transaction. Existing ids are left untouched.
// It returns the number of inserted rows.
func (r *PostingRepo) Insert(ctx context.Context, v *jobs.Postings, source string) (int64, error) {
	if err := jobs.CheckItems(v); err != nil {
		return 0, err
	}
	for _, p := range v.Items {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, p := range v.Items {
		required := p.Requirements
		if required == nil {
			required = []string{}
		}
		res, err := tx.ExecContext(ctx, insertPostingQuery,
			p.ID, p.Title, p.Company, p.Location, string(p.Type), p.Salary, p.Description,
			pq.Array(required), p.PostedAt, p.ApplyURL, source,
		)
		if err != nil {
			return 0, fmt.Errorf("insert posting %s: %w", p.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// DeleteOlderThan removes postings published before cutoff and returns how many were removed.
func (r *PostingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteOldPostingsQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old postings: %w", err)
	}
	return res.RowsAffected()
}

func scanPostings(rows *sql.Rows) (*jobs.Postings, error) {
	items := make([]*jobs.Posting, 0)
	for rows.Next() {
		var (
			p        jobs.Posting
			jobType  string
			required []string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &jobType, &p.Salary,
			&p.Description, pq.Array(&required), &p.PostedAt, &p.ApplyURL); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}

		t, err := jobs.ParseJobType(jobType)
		if err != nil {
			return nil, fmt.Errorf("posting %s: %w", p.ID, err)
		}
		p.Type = t

		if required == nil {
			required = []string{}
		}
		p.Requirements = required

		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate postings: %w", err)
	}

	return &jobs.Postings{Items: items}, nil
}
