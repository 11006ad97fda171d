package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jordan/easyapply-agent/internal/schedule"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run discover-and-apply cycles on a daily schedule",
	Long: "Keep running, firing one discover-and-apply cycle per interval " +
		"whenever the current time falls inside the configured hour window. " +
		"Stop with Ctrl+C.",
	RunE: runSchedule,
}

var (
	scheduleStart    int
	scheduleEnd      int
	scheduleInterval int
)

func init() {
	scheduleCmd.Flags().IntVar(&scheduleStart, "start-hour", 0, "Window start hour (24h)")
	scheduleCmd.Flags().IntVar(&scheduleEnd, "end-hour", 0, "Window end hour (24h, exclusive)")
	scheduleCmd.Flags().IntVar(&scheduleInterval, "interval", 0, "Minutes between runs")

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("start-hour") {
		cfg.SchedulerStartHour = scheduleStart
	}
	if cmd.Flags().Changed("end-hour") {
		cfg.SchedulerEndHour = scheduleEnd
	}
	if cmd.Flags().Changed("interval") {
		cfg.SchedulerIntervalMinutes = scheduleInterval
	}

	scheduler, err := schedule.New(schedule.Config{
		StartHour: cfg.SchedulerStartHour,
		EndHour:   cfg.SchedulerEndHour,
		Interval:  cfg.SchedulerInterval(),
		Verbose:   cfg.Verbose,
	}, func(ctx context.Context) error {
		return runCycle(ctx, cfg)
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
