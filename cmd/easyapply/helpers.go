package main

import (
	"context"
	"fmt"

	"github.com/jordan/easyapply-agent/internal/apply"
	"github.com/jordan/easyapply-agent/internal/browser"
	"github.com/jordan/easyapply-agent/internal/config"
	"github.com/jordan/easyapply-agent/internal/coverletter"
	"github.com/jordan/easyapply-agent/internal/db"
	"github.com/jordan/easyapply-agent/internal/discover"
	"github.com/jordan/easyapply-agent/internal/resume"
)

// loadConfig resolves the layered configuration and validates it. The
// persistent --verbose flag wins over the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}

// startBrowser launches Chrome and makes sure the session is logged in.
func startBrowser(ctx context.Context, cfg *config.Config) (*browser.Browser, error) {
	b, err := browser.New(ctx, browser.Options{
		Headless:    cfg.Headless,
		UserDataDir: cfg.UserDataDir,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}

	if err := b.EnsureLoggedIn(ctx, cfg.Email, cfg.Password); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// discoverOptions translates config into a discovery run.
func discoverOptions(cfg *config.Config) (discover.Options, error) {
	var levels []discover.ExperienceLevel
	for _, name := range cfg.ExperienceLevelsList() {
		level, err := discover.ParseExperienceLevel(name)
		if err != nil {
			return discover.Options{}, err
		}
		levels = append(levels, level)
	}

	datePosted, err := discover.ParseDatePosted(cfg.DatePosted)
	if err != nil {
		return discover.Options{}, err
	}

	return discover.Options{
		Keywords:         cfg.KeywordsList(),
		Location:         cfg.Location,
		ExperienceLevels: levels,
		DatePosted:       datePosted,
		QuickApplyOnly:   cfg.QuickApplyOnly,
		MaxPages:         cfg.MaxPages,
		FetchDetails:     cfg.FetchDetails,
		Verbose:          cfg.Verbose,
	}, nil
}

func printBatchStats(stats apply.BatchStats) {
	fmt.Printf("Attempted: %d  Submitted: %d  Skipped: %d  Failed: %d\n",
		stats.Attempted, stats.Successful, stats.Skipped, stats.Failed)
}

// buildEngine assembles the application engine: store, browsing session,
// resume selector, and optional cover letter generator.
func buildEngine(ctx context.Context, cfg *config.Config, store *db.DB, b *browser.Browser) (*apply.Engine, error) {
	selector, err := resume.LoadProfiles(cfg.ResumeDir, cfg.Profiles, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume profiles: %w", err)
	}

	var letters apply.TextProvider
	generator, err := coverletter.New(ctx, coverletter.Config{
		Provider:      cfg.LetterProvider,
		ResumePath:    cfg.DefaultResume,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		OllamaAPIKey:  cfg.OllamaAPIKey,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build cover letter generator: %w", err)
	}
	if generator != nil {
		letters = generator
	}

	return apply.NewEngine(store, b, selector, letters, apply.Config{
		MaxFormSteps:      cfg.MaxFormSteps,
		Cooldown:          cfg.Cooldown(),
		DefaultResume:     cfg.DefaultResume,
		Location:          cfg.Location,
		YearsOfExperience: cfg.YearsOfExperience,
		AnswerAffirmative: cfg.AnswerAffirmative,
		Verbose:           cfg.Verbose,
	}), nil
}
