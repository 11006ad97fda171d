package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jordan/easyapply-agent/internal/apply"
)

// Browser implements apply.Session. The engine owns the decision logic; this
// file only answers questions about the current page and performs clicks.
var _ apply.Session = (*Browser)(nil)

// Navigate loads the listing page and waits for the document body.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	err := b.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func (b *Browser) AlreadyApplied(ctx context.Context) (bool, error) {
	text, found, err := b.textOf(ctx, selAlreadyApplied)
	if err != nil || !found {
		return false, err
	}
	return strings.Contains(strings.ToLower(text), "applied"), nil
}

func (b *Browser) QuickApplyLabel(ctx context.Context) (string, bool, error) {
	return b.textOf(ctx, selQuickApplyButton)
}

func (b *Browser) OpenQuickApply(ctx context.Context) error {
	err := b.run(ctx, chromedp.Click(selQuickApplyButton, chromedp.NodeVisible))
	if err != nil {
		return fmt.Errorf("failed to open quick-apply form: %w", err)
	}
	return nil
}

func (b *Browser) SuccessMarker(ctx context.Context) (bool, error) {
	text, found, err := b.textOf(ctx, selSuccessMarker)
	if err != nil || !found {
		return false, err
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "application sent") || strings.Contains(lower, "applied"), nil
}

func (b *Browser) PrimaryAction(ctx context.Context) (string, bool, error) {
	return b.textOf(ctx, selPrimaryAction)
}

func (b *Browser) ClickPrimaryAction(ctx context.Context) error {
	err := b.run(ctx, chromedp.Click(selPrimaryAction, chromedp.NodeVisible))
	if err != nil {
		return fmt.Errorf("failed to click primary action: %w", err)
	}
	return nil
}

func (b *Browser) DismissAvailable(ctx context.Context) (bool, error) {
	return b.exists(ctx, selDismiss)
}

func (b *Browser) Dismiss(ctx context.Context) error {
	err := b.run(ctx, chromedp.Click(selDismiss, chromedp.NodeVisible))
	if err != nil {
		return fmt.Errorf("failed to dismiss modal: %w", err)
	}
	return nil
}

func (b *Browser) ValidationError(ctx context.Context) (string, bool, error) {
	return b.textOf(ctx, selValidationError)
}

func (b *Browser) ResumeInput(ctx context.Context) (string, bool, error) {
	found, err := b.exists(ctx, selResumeInput)
	return selResumeInput, found, err
}

func (b *Browser) UploadFile(ctx context.Context, selector, path string) error {
	err := b.run(ctx, chromedp.SetUploadFiles(selector, []string{path}))
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

func (b *Browser) CoverLetterInput(ctx context.Context) (string, bool, error) {
	found, err := b.exists(ctx, selCoverLetterInput)
	return selCoverLetterInput, found, err
}

func (b *Browser) Fill(ctx context.Context, selector, value string) error {
	err := b.run(ctx, chromedp.SendKeys(selector, value))
	if err != nil {
		return fmt.Errorf("failed to fill %q: %w", selector, err)
	}
	return nil
}

// RequiredFields enumerates required inputs and their label text in one page
// round trip. Inputs without an id are skipped: there is no label to match
// them against and no stable selector to address them with.
func (b *Browser) RequiredFields(ctx context.Context) ([]apply.FormField, error) {
	var fields []apply.FormField
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%q).forEach(el => {
			if (!el.id) return;
			const label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			out.push({
				selector: '#' + CSS.escape(el.id),
				label: label ? label.innerText.trim() : '',
				value: el.value || '',
			});
		});
		return out;
	})()`, selRequiredFields)

	if err := b.run(ctx, chromedp.Evaluate(js, &fields)); err != nil {
		return nil, fmt.Errorf("failed to enumerate required fields: %w", err)
	}
	return fields, nil
}

// ChoiceGroups enumerates yes/no question groups. Groups without a legend or
// an addressable affirmative option are skipped.
func (b *Browser) ChoiceGroups(ctx context.Context) ([]apply.ChoiceGroup, error) {
	var groups []apply.ChoiceGroup
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%q).forEach(fs => {
			const legend = fs.querySelector('legend');
			if (!legend) return;
			const yes = fs.querySelector('input[value="Yes"], input[value="yes"]');
			if (!yes || !yes.id) return;
			out.push({
				legend: legend.innerText.trim(),
				yesSelector: '#' + CSS.escape(yes.id),
				answered: yes.checked,
			});
		});
		return out;
	})()`, selChoiceGroups)

	if err := b.run(ctx, chromedp.Evaluate(js, &groups)); err != nil {
		return nil, fmt.Errorf("failed to enumerate choice groups: %w", err)
	}
	return groups, nil
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	err := b.run(ctx, chromedp.Click(selector, chromedp.NodeVisible))
	if err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

// Pause waits out d, honoring cancellation.
func (b *Browser) Pause(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
