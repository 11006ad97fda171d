package apply

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jordan/easyapply-agent/internal/db"
)

// fillStep resolves the currently rendered form step: resume upload, cover
// letter, heuristic fills for recognized required fields, and binary-choice
// defaults. Unrecognized required fields are left untouched; if that later
// exhausts the attempt it is reported through the batch stats rather than
// failed eagerly here.
func (e *Engine) fillStep(ctx context.Context, listing db.Listing, appID uuid.UUID) error {
	if err := e.uploadResume(ctx, listing); err != nil {
		return err
	}
	if err := e.writeCoverLetter(ctx, listing, appID); err != nil {
		return err
	}
	if err := e.fillRequiredFields(ctx); err != nil {
		return err
	}
	return e.answerChoiceGroups(ctx)
}

func (e *Engine) uploadResume(ctx context.Context, listing db.Listing) error {
	selector, found, err := e.session.ResumeInput(ctx)
	if err != nil {
		return fmt.Errorf("failed to locate resume input: %w", err)
	}
	if !found {
		return nil
	}

	path := e.resumeFor(listing)
	if path == "" {
		log.Printf("[APPLY] resume input present but no resume configured")
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("[APPLY] resume not found on disk: %s", path)
		return nil
	}

	if err := e.session.UploadFile(ctx, selector, path); err != nil {
		return fmt.Errorf("failed to upload resume: %w", err)
	}
	if e.cfg.Verbose {
		log.Printf("[APPLY] uploaded resume %s", path)
	}
	return nil
}

func (e *Engine) writeCoverLetter(ctx context.Context, listing db.Listing, appID uuid.UUID) error {
	if e.letters == nil {
		return nil
	}

	selector, found, err := e.session.CoverLetterInput(ctx)
	if err != nil {
		return fmt.Errorf("failed to locate cover letter input: %w", err)
	}
	if !found {
		return nil
	}

	text, err := e.letters.Generate(ctx, listing.Title, listing.Organization, deref(listing.Description))
	if err != nil {
		// Degrade to no cover letter rather than aborting the attempt.
		log.Printf("[APPLY] cover letter generation failed: %v", err)
		return nil
	}
	if text == "" {
		return nil
	}

	if err := e.session.Fill(ctx, selector, text); err != nil {
		return fmt.Errorf("failed to fill cover letter: %w", err)
	}
	if err := e.store.SetApplicationCoverLetter(ctx, appID, text); err != nil {
		return err
	}
	if e.cfg.Verbose {
		log.Printf("[APPLY] filled generated cover letter (%d chars)", len(text))
	}
	return nil
}

// fillRequiredFields applies label heuristics to empty required fields.
// Fields with no matching heuristic are deliberately left alone.
func (e *Engine) fillRequiredFields(ctx context.Context) error {
	fields, err := e.session.RequiredFields(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate required fields: %w", err)
	}

	for _, field := range fields {
		if field.Value != "" {
			continue
		}

		value := e.heuristicValue(field.Label)
		if value == "" {
			continue
		}
		if err := e.session.Fill(ctx, field.Selector, value); err != nil {
			return fmt.Errorf("failed to fill %q: %w", field.Label, err)
		}
	}
	return nil
}

// heuristicValue maps a field label to a fill value, "" when unrecognized.
func (e *Engine) heuristicValue(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "year") && strings.Contains(l, "experience"):
		return e.cfg.YearsOfExperience
	case strings.Contains(l, "city"):
		city, _, _ := strings.Cut(e.cfg.Location, ",")
		return strings.TrimSpace(city)
	}
	return ""
}

func (e *Engine) answerChoiceGroups(ctx context.Context) error {
	if !e.cfg.AnswerAffirmative {
		return nil
	}

	groups, err := e.session.ChoiceGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate choice groups: %w", err)
	}

	for _, group := range groups {
		if group.Answered || group.YesSelector == "" {
			continue
		}
		if err := e.session.Click(ctx, group.YesSelector); err != nil {
			return fmt.Errorf("failed to answer %q: %w", group.Legend, err)
		}
		if e.cfg.Verbose {
			log.Printf("[APPLY] answered affirmative: %s", group.Legend)
		}
	}
	return nil
}
