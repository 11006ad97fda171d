package coverletter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Prompt inputs are truncated so a pasted job description cannot blow the
// model's context window.
const (
	maxDescriptionChars = 3000
	maxSummaryChars     = 2000
)

const promptTemplate = `You are a professional cover letter writer. Write a concise, compelling cover letter for the following job application.

Job Title: %s
Company: %s
Job Description:
%s

Resume Summary:
%s

Requirements:
1. Keep it under 300 words
2. Be professional but personable
3. Highlight relevant skills and experience
4. Show enthusiasm for the role and company
5. Don't include placeholder text like [Your Name] - write the actual content only
6. Start directly with the letter content (no "Dear Hiring Manager" unless specifically needed)

Write the cover letter now:`

func buildPrompt(title, organization, description, resumeSummary string) string {
	return fmt.Sprintf(promptTemplate,
		title,
		organization,
		truncate(description, maxDescriptionChars),
		truncate(resumeSummary, maxSummaryChars),
	)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

const defaultResumeSummary = `Experienced software professional with expertise in building scalable
applications and working with cross-functional teams. Passionate about
learning new technologies and solving complex problems.`

// LoadResumeSummary reads the summary that seeds cover letter prompts. It
// tries a .txt sidecar next to the resume, then a shared resume_summary.txt
// in the same directory, then falls back to a generic summary.
func LoadResumeSummary(resumePath string) string {
	if resumePath == "" {
		return defaultResumeSummary
	}

	ext := filepath.Ext(resumePath)
	sidecar := strings.TrimSuffix(resumePath, ext) + ".txt"
	if data, err := os.ReadFile(sidecar); err == nil && len(data) > 0 {
		return truncate(strings.TrimSpace(string(data)), maxSummaryChars)
	}

	shared := filepath.Join(filepath.Dir(resumePath), "resume_summary.txt")
	if data, err := os.ReadFile(shared); err == nil && len(data) > 0 {
		return truncate(strings.TrimSpace(string(data)), maxSummaryChars)
	}

	return defaultResumeSummary
}
