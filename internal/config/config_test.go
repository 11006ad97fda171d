package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost/easyapply",
		"keywords": "Go Developer, SRE",
		"headless": false,
		"max_applications": 3,
		"profiles": [
			{"name": "backend", "file": "backend.pdf", "keywords": ["go", "postgres"]}
		]
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost/easyapply", cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.MaxApplications)
	assert.False(t, cfg.Headless, "explicit headless=false must override the default")
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "backend", cfg.Profiles[0].Name)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 10, cfg.MaxFormSteps)
	assert.Equal(t, "Remote", cfg.Location)
	assert.Equal(t, 8, cfg.SchedulerStartHour)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxApplications)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "none", cfg.LetterProvider)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EnvFillsEmptyFields(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/easyapply")
	t.Setenv("LINKEDIN_EMAIL", "env@example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/easyapply", cfg.DatabaseURL)
	assert.Equal(t, "env@example.com", cfg.Email)
}

func TestLoad_FileWinsOverEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/easyapply")

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"database_url": "postgres://file/easyapply"}`), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/easyapply", cfg.DatabaseURL)
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.DatabaseURL = "postgres://localhost/easyapply"
	return &cfg
}

func TestValidate(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown letter provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.LetterProvider = "clippy"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative max applications", func(t *testing.T) {
		cfg := validConfig()
		cfg.MaxApplications = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted scheduler window", func(t *testing.T) {
		cfg := validConfig()
		cfg.SchedulerStartHour = 18
		cfg.SchedulerEndHour = 8
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler start hour")
	})
}

func TestKeywordsList(t *testing.T) {
	cfg := &Config{Keywords: " Go Developer ,, SRE ,"}
	assert.Equal(t, []string{"Go Developer", "SRE"}, cfg.KeywordsList())
}

func TestExperienceLevelsList(t *testing.T) {
	cfg := &Config{ExperienceLevels: "entry, mid_senior"}
	assert.Equal(t, []string{"entry", "mid_senior"}, cfg.ExperienceLevelsList())

	empty := &Config{}
	assert.Empty(t, empty.ExperienceLevelsList())
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{CooldownSeconds: 5, SchedulerIntervalMinutes: 90}
	assert.Equal(t, 5*time.Second, cfg.Cooldown())
	assert.Equal(t, 90*time.Minute, cfg.SchedulerInterval())
}
