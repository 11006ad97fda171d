package db

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the closed set of states an application moves through.
// Transitions out of StatusPending are one-way; every other status is terminal.
type ApplicationStatus string

const (
	StatusPending      ApplicationStatus = "pending"
	StatusApplied      ApplicationStatus = "applied"
	StatusQuickApplied ApplicationStatus = "quick_applied"
	StatusExternal     ApplicationStatus = "external"
	StatusSkipped      ApplicationStatus = "skipped"
	StatusFailed       ApplicationStatus = "failed"
)

// Valid reports whether s is one of the known status values.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApplied, StatusQuickApplied, StatusExternal, StatusSkipped, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further automatic transition occurs from s.
func (s ApplicationStatus) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// Success reports whether s means the external form was fully submitted.
// submitted_at is set on an application iff its status is a success status.
func (s ApplicationStatus) Success() bool {
	return s == StatusApplied || s == StatusQuickApplied
}

// Listing is one discovered job opportunity, deduplicated by ExternalID.
type Listing struct {
	ID              uuid.UUID `json:"id"`
	ExternalID      string    `json:"external_id"`
	Title           string    `json:"title"`
	Organization    string    `json:"organization"`
	Location        *string   `json:"location,omitempty"`
	Description     *string   `json:"description,omitempty"`
	URL             *string   `json:"url,omitempty"`
	PostedDate      *string   `json:"posted_date,omitempty"`
	ExperienceLevel *string   `json:"experience_level,omitempty"`
	EmploymentType  *string   `json:"employment_type,omitempty"`
	Compensation    *string   `json:"compensation,omitempty"`
	ApplicantCount  *string   `json:"applicant_count,omitempty"`
	QuickApply      bool      `json:"quick_apply"`
	SearchTerm      *string   `json:"search_term,omitempty"`
	DiscoveredAt    time.Time `json:"discovered_at"`
}

// ListingInput is a normalized listing record produced by the discovery
// pipeline. The insert-if-absent paths are the only accepted entry points
// for these.
type ListingInput struct {
	ExternalID      string `json:"external_id"`
	Title           string `json:"title"`
	Organization    string `json:"organization"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description,omitempty"`
	URL             string `json:"url,omitempty"`
	PostedDate      string `json:"posted_date,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	EmploymentType  string `json:"employment_type,omitempty"`
	Compensation    string `json:"compensation,omitempty"`
	ApplicantCount  string `json:"applicant_count,omitempty"`
	QuickApply      bool   `json:"quick_apply"`
	SearchTerm      string `json:"search_term,omitempty"`
}

// ListingDetails holds the fields a detail-page visit can back-fill onto an
// already stored listing. Empty fields are ignored.
type ListingDetails struct {
	Description     string
	ExperienceLevel string
	EmploymentType  string
	Compensation    string
	ApplicantCount  string
}

// Application is one attempt to apply to a listing.
type Application struct {
	ID           uuid.UUID         `json:"id"`
	ListingID    uuid.UUID         `json:"listing_id"`
	Status       ApplicationStatus `json:"status"`
	SubmittedAt  *time.Time        `json:"submitted_at,omitempty"`
	CoverLetter  *string           `json:"cover_letter,omitempty"`
	ResumeUsed   *string           `json:"resume_used,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Stats holds aggregate listing and application counts for reporting.
type Stats struct {
	TotalListings     int `json:"total_listings"`
	TotalApplications int `json:"total_applications"`
	Applied           int `json:"applied"`
	QuickApplied      int `json:"quick_applied"`
	External          int `json:"external"`
	Pending           int `json:"pending"`
	Skipped           int `json:"skipped"`
	Failed            int `json:"failed"`
}

// Submitted is the number of applications in a success status.
func (s Stats) Submitted() int {
	return s.Applied + s.QuickApplied
}
