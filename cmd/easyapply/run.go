package main

import (
	"context"
	"fmt"

	"github.com/jordan/easyapply-agent/internal/config"
	"github.com/jordan/easyapply-agent/internal/db"
	"github.com/jordan/easyapply-agent/internal/discover"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover listings, then apply to the new ones",
	Long: "One full cycle: search the board for matching listings, store the " +
		"new ones, and if auto_apply is enabled work through the quick-apply " +
		"queue.",
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return runCycle(cmd.Context(), cfg)
}

// runCycle is one discover-then-apply pass. Shared with the scheduler.
func runCycle(ctx context.Context, cfg *config.Config) error {
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

	opts, err := discoverOptions(cfg)
	if err != nil {
		return err
	}

	result, err := discover.NewPipeline(store, b).Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	fmt.Printf("Scanned %d listings, %d new\n", result.Scanned, result.Added)

	if !cfg.AutoApply {
		fmt.Println("auto_apply disabled, skipping applications")
		return nil
	}

	engine, err := buildEngine(ctx, cfg, store, b)
	if err != nil {
		return err
	}

	stats, err := engine.RunBatch(ctx, cfg.MaxApplications)
	printBatchStats(stats)
	if err != nil {
		return fmt.Errorf("application run failed: %w", err)
	}

	return printStoreStats(ctx, store)
}

func printStoreStats(ctx context.Context, store *db.DB) error {
	stats, err := store.GetStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Database: %d listings, %d applications, %d submitted\n",
		stats.TotalListings, stats.TotalApplications, stats.Submitted())
	return nil
}
