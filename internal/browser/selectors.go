package browser

// CSS selectors for the job board's surfaces. The board ships markup changes
// without notice, so these are the first thing to check when automation stops
// finding controls it used to find.
const (
	loginURL = "https://www.linkedin.com/login"
	feedURL  = "https://www.linkedin.com/feed/"

	selLoggedInFeed = `.feed-shared-update-v2, .scaffold-layout__main`
	selLoginEmail   = `#username`
	selLoginPass    = `#password`
	selLoginSubmit  = `button[type="submit"]`

	selAlreadyApplied = `[class*="applied"], .jobs-s-apply--fadein`

	selQuickApplyButton = `.jobs-apply-button, ` +
		`button[data-control-name="jobdetails_topcard_inapply"], ` +
		`button.jobs-s-apply button, ` +
		`.jobs-apply-button--top-card`

	selSuccessMarker = `[class*="post-apply"], .artdeco-modal__content h2`

	// Submit/Review buttons share the modal footer with Next/Continue, so a
	// single query covers every label the form driver switches on.
	selPrimaryAction = `button[aria-label="Submit application"], ` +
		`button[aria-label="Review"], ` +
		`button[aria-label="Continue to next step"], ` +
		`button[data-easy-apply-next-button], ` +
		`.jobs-easy-apply-content footer button.artdeco-button--primary`

	selDismiss         = `button[aria-label="Dismiss"], .artdeco-modal__dismiss`
	selValidationError = `.artdeco-inline-feedback--error`

	selResumeInput = `input[type="file"][name*="resume"], input[accept*=".pdf"]`

	selCoverLetterInput = `textarea[name*="cover"], ` +
		`textarea[aria-label*="cover letter"], ` +
		`textarea[id*="cover"]`

	selRequiredFields = `.jobs-easy-apply-form-section__grouping input[required], ` +
		`.jobs-easy-apply-form-section__grouping select[required]`

	selChoiceGroups = `.jobs-easy-apply-form-section__grouping fieldset`
)
