// Package apply drives a multi-step quick-apply form to a terminal outcome.
// All browser interaction goes through the Session capability interface, so
// the state machine and step resolver are plain logic that tests can run
// against a scripted fake.
package apply

import (
	"context"
	"time"
)

// FormField describes one required input on the currently rendered step.
// Value holds the input's current content; the resolver only touches fields
// whose Value is empty.
type FormField struct {
	Selector string
	Label    string
	Value    string
}

// ChoiceGroup describes a binary-choice question group (yes/no eligibility
// questions). YesSelector locates the affirmative option; it is empty when
// the session could not identify one.
type ChoiceGroup struct {
	Legend      string
	YesSelector string
	Answered    bool
}

// Session is the narrow interface the engine needs from an authenticated
// browsing session. Implementations own every page selector; the engine
// never assumes a specific rendering engine. Every method that waits on the
// page must honor ctx and time out rather than stall.
type Session interface {
	// Navigate loads the listing page.
	Navigate(ctx context.Context, url string) error

	// AlreadyApplied reports whether the page signals a prior application.
	AlreadyApplied(ctx context.Context) (bool, error)

	// QuickApplyLabel returns the apply affordance's label text, if present.
	QuickApplyLabel(ctx context.Context) (label string, found bool, err error)

	// OpenQuickApply activates the quick-apply affordance.
	OpenQuickApply(ctx context.Context) error

	// SuccessMarker reports whether the page shows a submitted confirmation.
	SuccessMarker(ctx context.Context) (bool, error)

	// PrimaryAction returns the label of the form's primary action control.
	PrimaryAction(ctx context.Context) (label string, found bool, err error)

	// ClickPrimaryAction activates the primary action control.
	ClickPrimaryAction(ctx context.Context) error

	// DismissAvailable reports whether a dismiss/close control is present.
	DismissAvailable(ctx context.Context) (bool, error)

	// Dismiss activates the dismiss/close control.
	Dismiss(ctx context.Context) error

	// ValidationError returns the current inline validation message, if any.
	ValidationError(ctx context.Context) (message string, found bool, err error)

	// ResumeInput returns the selector of a file-upload input on this step.
	ResumeInput(ctx context.Context) (selector string, found bool, err error)

	// UploadFile supplies a local file to a file input.
	UploadFile(ctx context.Context, selector, path string) error

	// CoverLetterInput returns the selector of a cover-letter text area.
	CoverLetterInput(ctx context.Context) (selector string, found bool, err error)

	// Fill sets the value of an input or text area.
	Fill(ctx context.Context, selector, value string) error

	// RequiredFields enumerates the required inputs on the current step.
	RequiredFields(ctx context.Context) ([]FormField, error)

	// ChoiceGroups enumerates the binary-choice groups on the current step.
	ChoiceGroups(ctx context.Context) ([]ChoiceGroup, error)

	// Click activates an arbitrary control located by the session.
	Click(ctx context.Context, selector string) error

	// Pause waits for the page to settle between interactions.
	Pause(ctx context.Context, d time.Duration) error
}
