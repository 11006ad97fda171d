package apply

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jordan/easyapply-agent/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStep scripts what the session reports for one rendered form step.
// ClickPrimaryAction advances to the next step.
type fakeStep struct {
	success     bool
	action      string
	actionFound bool
	dismiss     bool
	validation  string
	resumeInput string
	coverInput  string
	fields      []FormField
	groups      []ChoiceGroup
}

type fakeSession struct {
	steps          []fakeStep
	cur            int
	alreadyApplied bool
	quickLabel     string
	quickFound     bool
	opened         bool
	navigated      []string
	uploads        map[string]string
	fills          map[string]string
	clicks         []string
	pauses         int
}

func newFakeSession(steps ...fakeStep) *fakeSession {
	return &fakeSession{
		steps:      steps,
		quickLabel: "Easy Apply",
		quickFound: true,
		uploads:    map[string]string{},
		fills:      map[string]string{},
	}
}

func (s *fakeSession) step() fakeStep {
	if s.cur >= len(s.steps) {
		return fakeStep{}
	}
	return s.steps[s.cur]
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return nil
}

func (s *fakeSession) AlreadyApplied(context.Context) (bool, error) {
	return s.alreadyApplied, nil
}

func (s *fakeSession) QuickApplyLabel(context.Context) (string, bool, error) {
	return s.quickLabel, s.quickFound, nil
}

func (s *fakeSession) OpenQuickApply(context.Context) error {
	s.opened = true
	return nil
}

func (s *fakeSession) SuccessMarker(context.Context) (bool, error) {
	return s.step().success, nil
}

func (s *fakeSession) PrimaryAction(context.Context) (string, bool, error) {
	return s.step().action, s.step().actionFound, nil
}

func (s *fakeSession) ClickPrimaryAction(context.Context) error {
	if s.cur < len(s.steps)-1 {
		s.cur++
	}
	return nil
}

func (s *fakeSession) DismissAvailable(context.Context) (bool, error) {
	return s.step().dismiss, nil
}

func (s *fakeSession) Dismiss(context.Context) error { return nil }

func (s *fakeSession) ValidationError(context.Context) (string, bool, error) {
	msg := s.step().validation
	return msg, msg != "", nil
}

func (s *fakeSession) ResumeInput(context.Context) (string, bool, error) {
	sel := s.step().resumeInput
	return sel, sel != "", nil
}

func (s *fakeSession) UploadFile(_ context.Context, selector, path string) error {
	s.uploads[selector] = path
	return nil
}

func (s *fakeSession) CoverLetterInput(context.Context) (string, bool, error) {
	sel := s.step().coverInput
	return sel, sel != "", nil
}

func (s *fakeSession) Fill(_ context.Context, selector, value string) error {
	s.fills[selector] = value
	return nil
}

func (s *fakeSession) RequiredFields(context.Context) ([]FormField, error) {
	return s.step().fields, nil
}

func (s *fakeSession) ChoiceGroups(context.Context) ([]ChoiceGroup, error) {
	return s.step().groups, nil
}

func (s *fakeSession) Click(_ context.Context, selector string) error {
	s.clicks = append(s.clicks, selector)
	return nil
}

func (s *fakeSession) Pause(ctx context.Context, _ time.Duration) error {
	s.pauses++
	return ctx.Err()
}

type fakeStore struct {
	listings     []db.Listing
	apps         map[uuid.UUID]*db.Application
	coverLetters map[uuid.UUID]string
}

func newFakeStore(listings ...db.Listing) *fakeStore {
	return &fakeStore{
		listings:     listings,
		apps:         map[uuid.UUID]*db.Application{},
		coverLetters: map[uuid.UUID]string{},
	}
}

func (f *fakeStore) UnattemptedEligible(_ context.Context, limit int) ([]db.Listing, error) {
	if limit < len(f.listings) {
		return f.listings[:limit], nil
	}
	return f.listings, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, listingID uuid.UUID, status db.ApplicationStatus, resumeUsed string) (*db.Application, error) {
	app := &db.Application{ID: uuid.New(), ListingID: listingID, Status: status}
	if resumeUsed != "" {
		app.ResumeUsed = &resumeUsed
	}
	f.apps[app.ID] = app
	return app, nil
}

func (f *fakeStore) SetApplicationStatus(_ context.Context, id uuid.UUID, status db.ApplicationStatus, errorMessage string) (*db.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, db.ErrApplicationNotFound
	}
	app.Status = status
	if errorMessage != "" {
		app.ErrorMessage = &errorMessage
	}
	if status.Success() {
		now := time.Now()
		app.SubmittedAt = &now
	}
	return app, nil
}

func (f *fakeStore) SetApplicationCoverLetter(_ context.Context, id uuid.UUID, coverLetter string) error {
	if _, ok := f.apps[id]; !ok {
		return db.ErrApplicationNotFound
	}
	f.coverLetters[id] = coverLetter
	return nil
}

type fakeSelector struct{ path string }

func (f fakeSelector) Select(_, _, _ string) string { return f.path }

type fakeProvider struct {
	text string
	err  error
}

func (f fakeProvider) Generate(context.Context, string, string, string) (string, error) {
	return f.text, f.err
}

func quickApplyListing() db.Listing {
	url := "https://example.com/jobs/view/42/"
	desc := "python django rest api"
	return db.Listing{
		ID:           uuid.New(),
		ExternalID:   "42",
		Title:        "Backend Engineer",
		Organization: "Acme",
		URL:          &url,
		Description:  &desc,
		QuickApply:   true,
	}
}

func testConfig() Config {
	return Config{
		MaxFormSteps:      5,
		StepPause:         time.Nanosecond,
		Cooldown:          time.Nanosecond,
		Location:          "San Francisco, CA",
		YearsOfExperience: "3",
	}
}

func TestApplyTo_TerminatesExhausted(t *testing.T) {
	// A form that never shows success and never exposes a recognized action
	// control must terminate within the configured bound.
	session := newFakeSession(fakeStep{})
	engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	assert.Equal(t, OutcomeExhausted, outcome)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIterationBound)
}

func TestApplyTo_SkipsWhenAlreadyApplied(t *testing.T) {
	session := newFakeSession(fakeStep{})
	session.alreadyApplied = true
	engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.False(t, session.opened, "must not enter the form")
}

func TestApplyTo_SkipsWithoutQuickApplyControl(t *testing.T) {
	tests := []struct {
		name  string
		label string
		found bool
	}{
		{"no control", "", false},
		{"external apply variant", "Apply on company site", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newFakeSession(fakeStep{})
			session.quickLabel = tt.label
			session.quickFound = tt.found
			engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

			outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

			require.NoError(t, err)
			assert.Equal(t, OutcomeSkipped, outcome)
			assert.False(t, session.opened)
		})
	}
}

func TestApplyTo_MultiStepSubmission(t *testing.T) {
	session := newFakeSession(
		fakeStep{action: "Next", actionFound: true, fields: []FormField{
			{Selector: "#years", Label: "How many years of experience do you have?"},
			{Selector: "#city", Label: "What city do you live in?"},
			{Selector: "#portfolio", Label: "Link to your portfolio"},
			{Selector: "#email", Label: "Email", Value: "set@example.com"},
		}},
		fakeStep{action: "Review", actionFound: true},
		fakeStep{action: "Submit application", actionFound: true},
		fakeStep{}, // post-submit, no validation error
	)
	engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
	assert.Equal(t, "3", session.fills["#years"])
	assert.Equal(t, "San Francisco", session.fills["#city"])
	_, touched := session.fills["#portfolio"]
	assert.False(t, touched, "unrecognized required field must stay untouched")
	_, touched = session.fills["#email"]
	assert.False(t, touched, "already-filled field must stay untouched")
}

func TestApplyTo_SuccessMarkerShortCircuits(t *testing.T) {
	session := newFakeSession(fakeStep{success: true})
	engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
}

func TestApplyTo_ValidationRejectionRetriesSubmit(t *testing.T) {
	session := newFakeSession(
		fakeStep{action: "Submit application", actionFound: true},
		fakeStep{action: "Submit application", actionFound: true, validation: "Please enter a valid phone number"},
		fakeStep{}, // second submit accepted
	)
	engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
}

func TestFillStep_UploadsSelectedResume(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "Backend.pdf")
	require.NoError(t, os.WriteFile(resumePath, []byte("pdf"), 0o644))

	session := newFakeSession(
		fakeStep{action: "Next", actionFound: true, resumeInput: "input[type=file]"},
		fakeStep{action: "Submit", actionFound: true},
		fakeStep{},
	)
	engine := NewEngine(newFakeStore(), session, fakeSelector{path: resumePath}, nil, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
	assert.Equal(t, resumePath, session.uploads["input[type=file]"])
}

func TestFillStep_MissingResumeFileIsNotFatal(t *testing.T) {
	session := newFakeSession(
		fakeStep{action: "Submit", actionFound: true, resumeInput: "input[type=file]"},
		fakeStep{},
	)
	cfg := testConfig()
	cfg.DefaultResume = "/nonexistent/resume.pdf"
	engine := NewEngine(newFakeStore(), session, nil, nil, cfg)

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
	assert.Empty(t, session.uploads)
}

func TestFillStep_CoverLetterGeneratedAndRecorded(t *testing.T) {
	store := newFakeStore()
	app, err := store.CreateApplication(context.Background(), uuid.New(), db.StatusPending, "")
	require.NoError(t, err)

	session := newFakeSession(
		fakeStep{action: "Submit", actionFound: true, coverInput: "#cover"},
		fakeStep{},
	)
	engine := NewEngine(store, session, nil, fakeProvider{text: "Dear team"}, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), app.ID)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
	assert.Equal(t, "Dear team", session.fills["#cover"])
	assert.Equal(t, "Dear team", store.coverLetters[app.ID])
}

func TestFillStep_ProviderFailureDegradesToNoLetter(t *testing.T) {
	session := newFakeSession(
		fakeStep{action: "Submit", actionFound: true, coverInput: "#cover"},
		fakeStep{},
	)
	engine := NewEngine(newFakeStore(), session, nil, fakeProvider{err: errors.New("model offline")}, testConfig())

	outcome, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, outcome)
	_, filled := session.fills["#cover"]
	assert.False(t, filled)
}

func TestFillStep_AffirmativeAnswersAreOptIn(t *testing.T) {
	groups := []ChoiceGroup{
		{Legend: "Are you authorized to work?", YesSelector: "#auth-yes"},
		{Legend: "Do you require sponsorship?", YesSelector: "#sponsor-yes", Answered: true},
	}

	t.Run("disabled by default", func(t *testing.T) {
		session := newFakeSession(
			fakeStep{action: "Submit", actionFound: true, groups: groups},
			fakeStep{},
		)
		engine := NewEngine(newFakeStore(), session, nil, nil, testConfig())

		_, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())
		require.NoError(t, err)
		assert.Empty(t, session.clicks, "must not answer eligibility questions unless opted in")
	})

	t.Run("enabled answers only unanswered groups", func(t *testing.T) {
		session := newFakeSession(
			fakeStep{action: "Submit", actionFound: true, groups: groups},
			fakeStep{},
		)
		cfg := testConfig()
		cfg.AnswerAffirmative = true
		engine := NewEngine(newFakeStore(), session, nil, nil, cfg)

		_, err := engine.ApplyTo(context.Background(), quickApplyListing(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, []string{"#auth-yes"}, session.clicks)
	})
}

func TestRunBatch_PersistsTerminalStatuses(t *testing.T) {
	listing := quickApplyListing()
	store := newFakeStore(listing)
	session := newFakeSession(
		fakeStep{action: "Submit application", actionFound: true},
		fakeStep{},
	)
	engine := NewEngine(store, session, nil, nil, testConfig())

	stats, err := engine.RunBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, BatchStats{Attempted: 1, Successful: 1}, stats)

	require.Len(t, store.apps, 1)
	for _, app := range store.apps {
		assert.Equal(t, db.StatusQuickApplied, app.Status)
		assert.NotNil(t, app.SubmittedAt)
	}
}

func TestRunBatch_FailureDoesNotAbortBatch(t *testing.T) {
	// The shared session never completes any form, so every attempt is
	// exhausted; the batch still runs to the end and reports counts.
	store := newFakeStore(quickApplyListing(), quickApplyListing())
	session := newFakeSession(fakeStep{})
	engine := NewEngine(store, session, nil, nil, testConfig())

	stats, err := engine.RunBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, BatchStats{Attempted: 2, Failed: 2}, stats)

	for _, app := range store.apps {
		assert.Equal(t, db.StatusFailed, app.Status)
		require.NotNil(t, app.ErrorMessage)
		assert.Contains(t, *app.ErrorMessage, "form step limit")
		assert.Nil(t, app.SubmittedAt)
	}
}

func TestRunBatch_SkippedListingsAreRecorded(t *testing.T) {
	store := newFakeStore(quickApplyListing())
	session := newFakeSession(fakeStep{})
	session.alreadyApplied = true
	engine := NewEngine(store, session, nil, nil, testConfig())

	stats, err := engine.RunBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, BatchStats{Attempted: 1, Skipped: 1}, stats)

	for _, app := range store.apps {
		assert.Equal(t, db.StatusSkipped, app.Status)
	}
}

func TestRunBatch_HonorsLimit(t *testing.T) {
	store := newFakeStore(quickApplyListing(), quickApplyListing(), quickApplyListing())
	session := newFakeSession(fakeStep{success: true})
	engine := NewEngine(store, session, nil, nil, testConfig())

	stats, err := engine.RunBatch(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Attempted)
}

func TestOutcome_StatusMapping(t *testing.T) {
	tests := []struct {
		outcome Outcome
		status  db.ApplicationStatus
	}{
		{OutcomeSubmitted, db.StatusQuickApplied},
		{OutcomeSkipped, db.StatusSkipped},
		{OutcomeExhausted, db.StatusFailed},
		{OutcomeErrorAborted, db.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.outcome.Status())
		})
	}
}
