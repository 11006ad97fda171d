package apply

import "github.com/jordan/easyapply-agent/internal/db"

// Outcome is the closed result of one ApplyTo call.
type Outcome int

const (
	// OutcomeSubmitted means the external form was fully submitted.
	OutcomeSubmitted Outcome = iota
	// OutcomeSkipped means the engine declined without entering the form:
	// a prior application existed or the listing is not quick-apply.
	OutcomeSkipped
	// OutcomeExhausted means the step bound was reached without submission.
	OutcomeExhausted
	// OutcomeErrorAborted means an unexpected failure ended the attempt.
	OutcomeErrorAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeErrorAborted:
		return "error_aborted"
	default:
		return "unknown"
	}
}

// Status maps an engine outcome to the terminal application status that gets
// persisted. Submission through the quick-apply flow is always recorded as
// quick_applied; the plain applied status is reserved for applications
// completed outside this engine.
func (o Outcome) Status() db.ApplicationStatus {
	switch o {
	case OutcomeSubmitted:
		return db.StatusQuickApplied
	case OutcomeSkipped:
		return db.StatusSkipped
	case OutcomeExhausted, OutcomeErrorAborted:
		return db.StatusFailed
	default:
		return db.StatusFailed
	}
}
