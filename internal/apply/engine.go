package apply

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jordan/easyapply-agent/internal/db"
)

// ErrIterationBound is wrapped into the error returned when the form never
// reaches a success marker within the configured step limit.
var ErrIterationBound = errors.New("form step limit reached")

// Store is the slice of the listing store the engine writes through.
type Store interface {
	UnattemptedEligible(ctx context.Context, limit int) ([]db.Listing, error)
	CreateApplication(ctx context.Context, listingID uuid.UUID, status db.ApplicationStatus, resumeUsed string) (*db.Application, error)
	SetApplicationStatus(ctx context.Context, id uuid.UUID, status db.ApplicationStatus, errorMessage string) (*db.Application, error)
	SetApplicationCoverLetter(ctx context.Context, id uuid.UUID, coverLetter string) error
}

// ResumeSelector picks a resume path for a listing; "" means no selection.
type ResumeSelector interface {
	Select(title, description, organization string) string
}

// TextProvider generates cover-letter prose. A failure or empty result is
// never fatal to an attempt.
type TextProvider interface {
	Generate(ctx context.Context, title, organization, description string) (string, error)
}

// Config tunes the engine. Zero values fall back to the defaults below.
type Config struct {
	// MaxFormSteps bounds the form loop so a malformed or looping form
	// cannot stall an attempt forever.
	MaxFormSteps int
	// StepPause is how long the session settles between interactions.
	StepPause time.Duration
	// Cooldown is enforced between attempts regardless of outcome.
	Cooldown time.Duration
	// DefaultResume is used when resume selection yields nothing.
	DefaultResume string
	// Location seeds the city heuristic (first comma-separated segment).
	Location string
	// YearsOfExperience answers "years of experience" fields.
	YearsOfExperience string
	// AnswerAffirmative selects the "yes" option on unanswered binary
	// eligibility questions. This auto-answers questions with real-world
	// consequences (work authorization among them), so it is an explicit
	// opt-in rather than a built-in default.
	AnswerAffirmative bool
	// Verbose enables step-by-step logging.
	Verbose bool
}

const (
	defaultMaxFormSteps = 10
	defaultStepPause    = 1500 * time.Millisecond
	defaultCooldown     = 5 * time.Second
	defaultYears        = "3"
)

func (c Config) withDefaults() Config {
	if c.MaxFormSteps <= 0 {
		c.MaxFormSteps = defaultMaxFormSteps
	}
	if c.StepPause <= 0 {
		c.StepPause = defaultStepPause
	}
	if c.Cooldown <= 0 {
		c.Cooldown = defaultCooldown
	}
	if c.YearsOfExperience == "" {
		c.YearsOfExperience = defaultYears
	}
	return c
}

// BatchStats aggregates the results of one RunBatch call.
type BatchStats struct {
	Attempted  int `json:"attempted"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Engine drives the quick-apply form for one listing at a time against a
// single authenticated session. Attempts are strictly sequential; the
// engine is not safe for concurrent use and never retries within a call.
type Engine struct {
	store    Store
	session  Session
	selector ResumeSelector
	letters  TextProvider
	cfg      Config
}

// NewEngine wires an engine. selector and letters may be nil: without a
// selector the default resume is always used, without a text provider cover
// letters are left blank.
func NewEngine(store Store, session Session, selector ResumeSelector, letters TextProvider, cfg Config) *Engine {
	return &Engine{
		store:    store,
		session:  session,
		selector: selector,
		letters:  letters,
		cfg:      cfg.withDefaults(),
	}
}

// ApplyTo drives the quick-apply flow for a single listing to a terminal
// outcome. It never loops indefinitely: each wait is bounded by ctx and the
// form loop by MaxFormSteps. The returned error carries detail for
// exhausted and aborted outcomes; skipped and submitted return a nil error.
func (e *Engine) ApplyTo(ctx context.Context, listing db.Listing, appID uuid.UUID) (Outcome, error) {
	if e.cfg.Verbose {
		log.Printf("[APPLY] %s at %s", listing.Title, listing.Organization)
	}

	if err := e.session.Navigate(ctx, deref(listing.URL)); err != nil {
		return OutcomeErrorAborted, fmt.Errorf("failed to open listing: %w", err)
	}
	if err := e.session.Pause(ctx, e.cfg.StepPause); err != nil {
		return OutcomeErrorAborted, err
	}

	// Pre-check: a prior application means there is nothing to drive.
	applied, err := e.session.AlreadyApplied(ctx)
	if err != nil {
		return OutcomeErrorAborted, fmt.Errorf("failed to check applied marker: %w", err)
	}
	if applied {
		if e.cfg.Verbose {
			log.Printf("[APPLY] already applied, skipping")
		}
		return OutcomeSkipped, nil
	}

	// Entry: the affordance must exist and actually be the quick-apply
	// variant; anything else routes off-site and is not ours to complete.
	label, found, err := e.session.QuickApplyLabel(ctx)
	if err != nil {
		return OutcomeErrorAborted, fmt.Errorf("failed to locate apply control: %w", err)
	}
	if !found || !isQuickApplyLabel(label) {
		if e.cfg.Verbose {
			log.Printf("[APPLY] no quick-apply control, skipping")
		}
		return OutcomeSkipped, nil
	}

	if err := e.session.OpenQuickApply(ctx); err != nil {
		return OutcomeErrorAborted, fmt.Errorf("failed to open quick-apply form: %w", err)
	}

	return e.driveForm(ctx, listing, appID)
}

// driveForm progresses the opened form until a success marker appears or the
// step bound runs out.
func (e *Engine) driveForm(ctx context.Context, listing db.Listing, appID uuid.UUID) (Outcome, error) {
	var lastValidation string

	for step := 0; step < e.cfg.MaxFormSteps; step++ {
		if err := e.session.Pause(ctx, e.cfg.StepPause); err != nil {
			return OutcomeErrorAborted, err
		}

		done, err := e.session.SuccessMarker(ctx)
		if err != nil {
			return OutcomeErrorAborted, fmt.Errorf("failed to check success marker: %w", err)
		}
		if done {
			return OutcomeSubmitted, nil
		}

		label, found, err := e.session.PrimaryAction(ctx)
		if err != nil {
			return OutcomeErrorAborted, fmt.Errorf("failed to read primary action: %w", err)
		}

		if found {
			switch action := strings.ToLower(label); {
			case strings.Contains(action, "submit"):
				if err := e.fillStep(ctx, listing, appID); err != nil {
					return OutcomeErrorAborted, err
				}
				if err := e.session.ClickPrimaryAction(ctx); err != nil {
					return OutcomeErrorAborted, fmt.Errorf("failed to submit: %w", err)
				}
				if err := e.session.Pause(ctx, e.cfg.StepPause); err != nil {
					return OutcomeErrorAborted, err
				}
				// A validation rejection keeps the modal open on the same
				// step; anything else is a completed submission.
				if msg, rejected, err := e.session.ValidationError(ctx); err != nil {
					return OutcomeErrorAborted, err
				} else if rejected {
					lastValidation = msg
					continue
				}
				return OutcomeSubmitted, nil

			case strings.Contains(action, "next"), strings.Contains(action, "continue"):
				if err := e.fillStep(ctx, listing, appID); err != nil {
					return OutcomeErrorAborted, err
				}
				if err := e.session.ClickPrimaryAction(ctx); err != nil {
					return OutcomeErrorAborted, fmt.Errorf("failed to advance form: %w", err)
				}
				continue

			case strings.Contains(action, "review"):
				// Review steps carry no new inputs.
				if err := e.session.ClickPrimaryAction(ctx); err != nil {
					return OutcomeErrorAborted, fmt.Errorf("failed to advance past review: %w", err)
				}
				continue
			}
		}

		// No recognized action control. A dismiss control together with a
		// success marker means the confirmation dialog is all that is left.
		dismissable, err := e.session.DismissAvailable(ctx)
		if err != nil {
			return OutcomeErrorAborted, err
		}
		if dismissable {
			done, err := e.session.SuccessMarker(ctx)
			if err != nil {
				return OutcomeErrorAborted, err
			}
			if done {
				if err := e.session.Dismiss(ctx); err != nil {
					return OutcomeErrorAborted, err
				}
				return OutcomeSubmitted, nil
			}
		}

		if msg, found, err := e.session.ValidationError(ctx); err != nil {
			return OutcomeErrorAborted, err
		} else if found {
			// Not terminal by itself: the resolver reacts on the next pass.
			lastValidation = msg
			if e.cfg.Verbose {
				log.Printf("[APPLY] validation error: %s", msg)
			}
		}
	}

	err := fmt.Errorf("%w after %d steps", ErrIterationBound, e.cfg.MaxFormSteps)
	if lastValidation != "" {
		err = fmt.Errorf("%w (last validation error: %s)", err, lastValidation)
	}
	return OutcomeExhausted, err
}

// RunBatch pulls up to maxApplications eligible listings and processes them
// strictly one at a time, persisting a terminal status for every attempt.
// A single listing's failure never aborts the batch; store-level failures
// do propagate. A fixed cooldown separates attempts regardless of outcome.
func (e *Engine) RunBatch(ctx context.Context, maxApplications int) (BatchStats, error) {
	var stats BatchStats

	listings, err := e.store.UnattemptedEligible(ctx, maxApplications)
	if err != nil {
		return stats, fmt.Errorf("failed to load eligible listings: %w", err)
	}
	if len(listings) == 0 {
		log.Printf("[APPLY] no eligible listings")
		return stats, nil
	}

	log.Printf("[APPLY] starting batch of %d listings", len(listings))

	for i, listing := range listings {
		resumePath := e.resumeFor(listing)

		app, err := e.store.CreateApplication(ctx, listing.ID, db.StatusPending, resumePath)
		if err != nil {
			return stats, fmt.Errorf("failed to create application record: %w", err)
		}

		stats.Attempted++
		outcome, applyErr := e.ApplyTo(ctx, listing, app.ID)

		errMsg := ""
		if applyErr != nil {
			errMsg = applyErr.Error()
			log.Printf("[APPLY] %s: %s (%v)", listing.ExternalID, outcome, applyErr)
		}

		if _, err := e.store.SetApplicationStatus(ctx, app.ID, outcome.Status(), errMsg); err != nil {
			return stats, fmt.Errorf("failed to persist outcome: %w", err)
		}

		switch outcome {
		case OutcomeSubmitted:
			stats.Successful++
		case OutcomeSkipped:
			stats.Skipped++
		default:
			stats.Failed++
		}

		// Cooldown between attempts; an interrupt here leaves no attempt
		// mid-flight.
		if i < len(listings)-1 {
			select {
			case <-time.After(e.cfg.Cooldown):
			case <-ctx.Done():
				return stats, ctx.Err()
			}
		}
	}

	log.Printf("[APPLY] batch done: %d attempted, %d successful, %d skipped, %d failed",
		stats.Attempted, stats.Successful, stats.Skipped, stats.Failed)
	return stats, nil
}

// resumeFor picks the resume for a listing, falling back to the configured
// default when selection yields nothing.
func (e *Engine) resumeFor(listing db.Listing) string {
	if e.selector != nil {
		if path := e.selector.Select(listing.Title, deref(listing.Description), listing.Organization); path != "" {
			return path
		}
	}
	return e.cfg.DefaultResume
}

func isQuickApplyLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "easy apply") || strings.Contains(l, "quick apply")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
