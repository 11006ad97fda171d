package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

const applicationColumns = `id, listing_id, status, submitted_at, cover_letter,
       resume_used, notes, error_message, created_at, updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.ListingID, &a.Status, &a.SubmittedAt, &a.CoverLetter,
		&a.ResumeUsed, &a.Notes, &a.ErrorMessage, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication records a new attempt against a listing. submitted_at is
// set only when the initial status is already a success status (normally the
// engine creates applications as pending and promotes them later).
func (db *DB) CreateApplication(ctx context.Context, listingID uuid.UUID, status ApplicationStatus, resumeUsed string) (*Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid application status %q", status)
	}
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (listing_id, status, resume_used, submitted_at)
		 VALUES ($1, $2, NULLIF($3, ''), CASE WHEN $4 THEN NOW() END)
		 RETURNING `+applicationColumns,
		listingID, status, resumeUsed, status.Success(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// SetApplicationStatus moves an application to a new status, setting
// submitted_at when the status becomes a success terminal. An unknown
// application id yields ErrApplicationNotFound.
func (db *DB) SetApplicationStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus, errorMessage string) (*Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid application status %q", status)
	}
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET
		     status        = $2,
		     error_message = COALESCE(NULLIF($3, ''), error_message),
		     submitted_at  = CASE WHEN $4 THEN NOW() ELSE submitted_at END,
		     updated_at    = NOW()
		 WHERE id = $1
		 RETURNING `+applicationColumns,
		id, status, errorMessage, status.Success(),
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return a, nil
}

// SetApplicationCoverLetter stores the cover-letter text used for an attempt.
func (db *DB) SetApplicationCoverLetter(ctx context.Context, id uuid.UUID, coverLetter string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET cover_letter = $2, updated_at = NOW() WHERE id = $1`,
		id, coverLetter,
	)
	if err != nil {
		return fmt.Errorf("failed to set cover letter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	return nil
}

// GetApplicationForListing returns the most recent application for a listing,
// or (nil, nil) when the listing has never been attempted.
func (db *DB) GetApplicationForListing(ctx context.Context, listingID uuid.UUID) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE listing_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		listingID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplicationsByStatus returns applications in the given status.
func (db *DB) ListApplicationsByStatus(ctx context.Context, status ApplicationStatus, limit int) ([]Application, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2`,
		status, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// GetStats returns aggregate counts for reporting. The count queries run
// concurrently against the pool; the result is eventually consistent with
// respect to in-flight writers.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, query string, args ...any) func() error {
		return func() error {
			return db.pool.QueryRow(gctx, query, args...).Scan(dst)
		}
	}

	g.Go(count(&stats.TotalListings, `SELECT COUNT(*) FROM listings`))
	g.Go(count(&stats.TotalApplications, `SELECT COUNT(*) FROM applications`))

	byStatus := []struct {
		dst    *int
		status ApplicationStatus
	}{
		{&stats.Applied, StatusApplied},
		{&stats.QuickApplied, StatusQuickApplied},
		{&stats.External, StatusExternal},
		{&stats.Pending, StatusPending},
		{&stats.Skipped, StatusSkipped},
		{&stats.Failed, StatusFailed},
	}
	for _, c := range byStatus {
		g.Go(count(c.dst, `SELECT COUNT(*) FROM applications WHERE status = $1`, c.status))
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	return &stats, nil
}
