// Package schedule runs a job repeatedly inside a daily hour window.
package schedule

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Job is one scheduled run. Errors are logged, not fatal; the scheduler
// keeps ticking.
type Job func(ctx context.Context) error

// Config describes the daily window and tick interval.
type Config struct {
	// StartHour and EndHour bound the daily window in local time. The window
	// is [StartHour, EndHour): a job fires only when the current hour is
	// inside it.
	StartHour int
	EndHour   int

	// Interval between runs. Zero means an hour.
	Interval time.Duration

	Verbose bool
}

// DefaultConfig matches a working-day window with hourly runs.
func DefaultConfig() Config {
	return Config{StartHour: 8, EndHour: 18, Interval: time.Hour}
}

// Validate rejects windows that can never fire.
func (c Config) Validate() error {
	if c.StartHour < 0 || c.StartHour > 23 {
		return fmt.Errorf("start hour %d out of range", c.StartHour)
	}
	if c.EndHour < 1 || c.EndHour > 24 {
		return fmt.Errorf("end hour %d out of range", c.EndHour)
	}
	if c.StartHour >= c.EndHour {
		return fmt.Errorf("start hour %d must be before end hour %d", c.StartHour, c.EndHour)
	}
	return nil
}

// Scheduler ticks at the configured interval and runs the job whenever the
// tick lands inside the window.
type Scheduler struct {
	cfg Config
	job Job

	// now is swapped in tests.
	now func() time.Time
}

func New(cfg Config, job Job) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Scheduler{cfg: cfg, job: job, now: time.Now}, nil
}

// WithinWindow reports whether t falls inside the daily window.
func (s *Scheduler) WithinWindow(t time.Time) bool {
	hour := t.Hour()
	return hour >= s.cfg.StartHour && hour < s.cfg.EndHour
}

// Run blocks until ctx is cancelled. The job fires immediately if the
// current time is inside the window, then on every interval tick that lands
// inside it.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Printf("[SCHEDULE] running every %s between %02d:00 and %02d:00",
		s.cfg.Interval, s.cfg.StartHour, s.cfg.EndHour)

	s.fire(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[SCHEDULE] stopped")
			return ctx.Err()
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	now := s.now()
	if !s.WithinWindow(now) {
		if s.cfg.Verbose {
			log.Printf("[SCHEDULE] %02d:00 outside window, skipping", now.Hour())
		}
		return
	}

	log.Printf("[SCHEDULE] running job at %s", now.Format("15:04"))
	if err := s.job(ctx); err != nil {
		log.Printf("[SCHEDULE] job failed: %v", err)
	}
}
