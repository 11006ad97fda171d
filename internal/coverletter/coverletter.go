// Package coverletter generates per-listing cover letters. Generation is
// best effort: the application engine treats a failed or absent generator as
// "no cover letter", never as a failed application.
package coverletter

import (
	"context"
	"fmt"
)

// Generator produces a cover letter for one listing.
type Generator interface {
	Generate(ctx context.Context, title, organization, description string) (string, error)
}

// Provider names accepted in configuration.
const (
	ProviderOllama   = "ollama"
	ProviderGemini   = "gemini"
	ProviderTemplate = "template"
	ProviderNone     = ""
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	// ResumePath locates the resume whose sidecar summary seeds the prompt.
	ResumePath string

	OllamaBaseURL string
	OllamaModel   string
	OllamaAPIKey  string

	GeminiAPIKey string
	GeminiModel  string
}

// New builds the configured generator. A "none" provider returns nil without
// error; callers skip cover letters in that case.
func New(ctx context.Context, cfg Config) (Generator, error) {
	summary := LoadResumeSummary(cfg.ResumePath)

	switch cfg.Provider {
	case ProviderNone, "none":
		return nil, nil
	case ProviderOllama:
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaAPIKey, summary), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, summary)
	case ProviderTemplate:
		return NewTemplate(), nil
	default:
		return nil, fmt.Errorf("unknown cover letter provider %q", cfg.Provider)
	}
}
