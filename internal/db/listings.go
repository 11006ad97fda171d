package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const listingColumns = `id, external_id, title, organization, location, description,
       url, posted_date, experience_level, employment_type, compensation,
       applicant_count, quick_apply, search_term, discovered_at`

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.ExternalID, &l.Title, &l.Organization, &l.Location,
		&l.Description, &l.URL, &l.PostedDate, &l.ExperienceLevel,
		&l.EmploymentType, &l.Compensation, &l.ApplicantCount, &l.QuickApply,
		&l.SearchTerm, &l.DiscoveredAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]Listing, error) {
	defer rows.Close()
	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

const insertListingSQL = `
INSERT INTO listings (external_id, title, organization, location, description,
                      url, posted_date, experience_level, employment_type,
                      compensation, applicant_count, quick_apply, search_term)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
        NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''),
        NULLIF($11, ''), $12, NULLIF($13, ''))
ON CONFLICT (external_id) DO NOTHING
RETURNING ` + listingColumns

// InsertListingIfAbsent inserts a listing unless its external id already
// exists. A duplicate is not an error: it returns (nil, nil).
func (db *DB) InsertListingIfAbsent(ctx context.Context, input ListingInput) (*Listing, error) {
	l, err := scanListing(db.pool.QueryRow(ctx, insertListingSQL,
		input.ExternalID, input.Title, input.Organization, input.Location,
		input.Description, input.URL, input.PostedDate, input.ExperienceLevel,
		input.EmploymentType, input.Compensation, input.ApplicantCount,
		input.QuickApply, input.SearchTerm))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // duplicate external_id
		}
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}
	return l, nil
}

// InsertListingsBatch inserts the given listings in one transaction, skipping
// any whose external id already exists, and returns only the newly inserted
// subset. The insert-conflict path makes the existence check race-free.
func (db *DB) InsertListingsBatch(ctx context.Context, inputs []ListingInput) ([]Listing, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var added []Listing
	for _, input := range inputs {
		l, err := scanListing(tx.QueryRow(ctx, insertListingSQL,
			input.ExternalID, input.Title, input.Organization, input.Location,
			input.Description, input.URL, input.PostedDate, input.ExperienceLevel,
			input.EmploymentType, input.Compensation, input.ApplicantCount,
			input.QuickApply, input.SearchTerm))
		if err != nil {
			if err == pgx.ErrNoRows {
				continue // duplicate, skip silently
			}
			return nil, fmt.Errorf("failed to insert listing %s: %w", input.ExternalID, err)
		}
		added = append(added, *l)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit listing batch: %w", err)
	}
	return added, nil
}

// GetListingByExternalID retrieves a listing by its source-assigned id.
// Returns (nil, nil) when no such listing exists.
func (db *DB) GetListingByExternalID(ctx context.Context, externalID string) (*Listing, error) {
	l, err := scanListing(db.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE external_id = $1`,
		externalID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// UnattemptedEligible returns quick-apply listings with no application in a
// status that counts as attempted (applied, quick_applied, skipped), newest
// first. Listings with only pending or failed attempts remain eligible so
// interrupted or failed runs can be retried.
func (db *DB) UnattemptedEligible(ctx context.Context, limit int) ([]Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+listingColumns+`
		 FROM listings l
		 WHERE l.quick_apply = TRUE
		   AND NOT EXISTS (
		       SELECT 1 FROM applications a
		       WHERE a.listing_id = l.id
		         AND a.status = ANY($2)
		   )
		 ORDER BY l.discovered_at DESC
		 LIMIT $1`,
		limit, []string{string(StatusApplied), string(StatusQuickApplied), string(StatusSkipped)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible listings: %w", err)
	}
	return collectListings(rows)
}

// EnrichListing back-fills detail fields that the card-level discovery pass
// does not carry. Only columns that are currently empty are written; a
// listing is otherwise immutable after insert.
func (db *DB) EnrichListing(ctx context.Context, externalID string, d ListingDetails) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE listings SET
		     description      = COALESCE(description, NULLIF($2, '')),
		     experience_level = COALESCE(experience_level, NULLIF($3, '')),
		     employment_type  = COALESCE(employment_type, NULLIF($4, '')),
		     compensation     = COALESCE(compensation, NULLIF($5, '')),
		     applicant_count  = COALESCE(applicant_count, NULLIF($6, ''))
		 WHERE external_id = $1`,
		externalID, d.Description, d.ExperienceLevel, d.EmploymentType, d.Compensation, d.ApplicantCount,
	)
	if err != nil {
		return fmt.Errorf("failed to enrich listing %s: %w", externalID, err)
	}
	return nil
}

// SearchListings finds listings whose title or organization contains the
// keyword. Read-only reporting query, not on the apply path.
func (db *DB) SearchListings(ctx context.Context, keyword string, limit int) ([]Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+listingColumns+`
		 FROM listings
		 WHERE title ILIKE $1 OR organization ILIKE $1
		 ORDER BY discovered_at DESC
		 LIMIT $2`,
		"%"+keyword+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return collectListings(rows)
}

// ListListings returns listings newest first with offset pagination.
func (db *DB) ListListings(ctx context.Context, limit, offset int) ([]Listing, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+listingColumns+`
		 FROM listings
		 ORDER BY discovered_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return collectListings(rows)
}
