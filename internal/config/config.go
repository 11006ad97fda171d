// Package config provides configuration loading and validation for the CLI.
// Values resolve in three layers: built-in defaults, then the JSON config
// file, then environment variables for anything still unset. Secrets
// (credentials, API keys) normally arrive via environment so the config file
// can be committed.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jordan/easyapply-agent/internal/resume"
)

// Config is the full agent configuration.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty" validate:"required"`

	// Job board account. Password is env-only by convention.
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`

	// Discovery
	Keywords         string `json:"keywords,omitempty"`          // comma-separated
	Location         string `json:"location,omitempty"`
	ExperienceLevels string `json:"experience_levels,omitempty"` // comma-separated names
	DatePosted       string `json:"date_posted,omitempty"`
	QuickApplyOnly   bool   `json:"quick_apply_only,omitempty"`
	MaxPages         int    `json:"max_pages,omitempty" validate:"min=0"`
	FetchDetails     bool   `json:"fetch_details,omitempty"`

	// Applying
	AutoApply         bool   `json:"auto_apply,omitempty"`
	MaxApplications   int    `json:"max_applications,omitempty" validate:"min=0"`
	MaxFormSteps      int    `json:"max_form_steps,omitempty" validate:"min=0"`
	CooldownSeconds   int    `json:"cooldown_seconds,omitempty" validate:"min=0"`
	AnswerAffirmative bool   `json:"answer_affirmative,omitempty"`
	YearsOfExperience string `json:"years_of_experience,omitempty"`

	// Resumes
	ResumeDir     string                 `json:"resume_dir,omitempty"`
	DefaultResume string                 `json:"default_resume,omitempty"`
	Profiles      []resume.ProfileConfig `json:"profiles,omitempty"`

	// Cover letters
	LetterProvider string `json:"letter_provider,omitempty" validate:"omitempty,oneof=ollama gemini template none"`
	OllamaBaseURL  string `json:"ollama_base_url,omitempty"`
	OllamaModel    string `json:"ollama_model,omitempty"`
	OllamaAPIKey   string `json:"ollama_api_key,omitempty"`
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`
	GeminiModel    string `json:"gemini_model,omitempty"`

	// Browser
	Headless    bool   `json:"headless"`
	UserDataDir string `json:"user_data_dir,omitempty"`

	// Scheduler
	SchedulerStartHour       int `json:"scheduler_start_hour,omitempty" validate:"min=0,max=23"`
	SchedulerEndHour         int `json:"scheduler_end_hour,omitempty" validate:"min=1,max=24"`
	SchedulerIntervalMinutes int `json:"scheduler_interval_minutes,omitempty" validate:"min=0"`

	Verbose bool `json:"verbose,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Keywords:                 "Software Engineer",
		Location:                 "Remote",
		DatePosted:               "past_week",
		MaxPages:                 3,
		MaxApplications:          10,
		MaxFormSteps:             10,
		CooldownSeconds:          5,
		YearsOfExperience:        "3",
		ResumeDir:                "./resumes",
		LetterProvider:           "none",
		OllamaBaseURL:            "http://localhost:11434",
		Headless:                 true,
		UserDataDir:              "./browser_data",
		SchedulerStartHour:       8,
		SchedulerEndHour:         18,
		SchedulerIntervalMinutes: 60,
	}
}

// Load builds the configuration from defaults, an optional JSON file, and
// the environment. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		// Unmarshal over the defaults: absent keys keep their default value.
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv fills still-empty fields from the environment.
func (c *Config) applyEnv() {
	setIfEmpty(&c.DatabaseURL, "DATABASE_URL")
	setIfEmpty(&c.Email, "LINKEDIN_EMAIL")
	setIfEmpty(&c.Password, "LINKEDIN_PASSWORD")
	setIfEmpty(&c.OllamaAPIKey, "OLLAMA_API_KEY")
	setIfEmpty(&c.GeminiAPIKey, "GOOGLE_AI_API_KEY")
}

func setIfEmpty(dst *string, env string) {
	if *dst == "" {
		*dst = os.Getenv(env)
	}
}

// Validate checks field-level constraints and cross-field consistency.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.SchedulerStartHour >= c.SchedulerEndHour {
		return fmt.Errorf("config error: scheduler start hour %d must be before end hour %d",
			c.SchedulerStartHour, c.SchedulerEndHour)
	}
	return nil
}

// KeywordsList splits the comma-separated keywords, dropping blanks.
func (c *Config) KeywordsList() []string {
	var out []string
	for _, k := range strings.Split(c.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ExperienceLevelsList splits the comma-separated experience level names,
// dropping blanks.
func (c *Config) ExperienceLevelsList() []string {
	var out []string
	for _, name := range strings.Split(c.ExperienceLevels, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Cooldown returns the inter-application delay.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// SchedulerInterval returns the delay between scheduled runs.
func (c *Config) SchedulerInterval() time.Duration {
	return time.Duration(c.SchedulerIntervalMinutes) * time.Minute
}
