package db

import (
	"context"
	"fmt"
)

// schema creates the two tables the agent owns. The unique constraint on
// listings.external_id is what makes insert-if-absent atomic per id even if
// discovery runs ever execute concurrently.
const schema = `
CREATE TABLE IF NOT EXISTS listings (
    id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    external_id      TEXT NOT NULL UNIQUE,
    title            TEXT NOT NULL,
    organization     TEXT NOT NULL,
    location         TEXT,
    description      TEXT,
    url              TEXT,
    posted_date      TEXT,
    experience_level TEXT,
    employment_type  TEXT,
    compensation     TEXT,
    applicant_count  TEXT,
    quick_apply      BOOLEAN NOT NULL DEFAULT FALSE,
    search_term      TEXT,
    discovered_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listings_quick_apply
    ON listings (quick_apply, discovered_at DESC);

CREATE TABLE IF NOT EXISTS applications (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    listing_id    UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    status        TEXT NOT NULL DEFAULT 'pending',
    submitted_at  TIMESTAMPTZ,
    cover_letter  TEXT,
    resume_used   TEXT,
    notes         TEXT,
    error_message TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_applications_listing
    ON applications (listing_id);

CREATE INDEX IF NOT EXISTS idx_applications_status
    ON applications (status);
`

func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
