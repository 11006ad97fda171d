package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to stored quick-apply listings",
	Long: "Work through stored listings that have not been attempted yet, " +
		"driving the quick-apply flow for each. Requires auto_apply in the " +
		"config or an explicit --yes.",
	RunE: runApply,
}

var (
	applyMax int
	applyYes bool
)

func init() {
	applyCmd.Flags().IntVarP(&applyMax, "max", "m", 0, "Maximum applications this run")
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "Apply even if auto_apply is disabled in config")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxApplications = applyMax
	}

	if !cfg.AutoApply && !applyYes {
		return fmt.Errorf("auto_apply is disabled; enable it in config or pass --yes")
	}

	ctx := cmd.Context()

	store, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := startBrowser(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	engine, err := buildEngine(ctx, cfg, store, b)
	if err != nil {
		return err
	}

	stats, err := engine.RunBatch(ctx, cfg.MaxApplications)
	printBatchStats(stats)
	if err != nil {
		return fmt.Errorf("application run failed: %w", err)
	}
	return nil
}
