package main

import (
	"fmt"

	"github.com/jordan/easyapply-agent/internal/discover"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Discover new job listings and store them",
	Long: "Search the job board for listings matching the configured keywords " +
		"and filters. New listings are stored; already-known ones are ignored.",
	RunE: runSearch,
}

var (
	searchKeywords  string
	searchLocation  string
	searchPages     int
	searchQuickOnly bool
	searchDetails   bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchKeywords, "keywords", "k", "", "Comma-separated search keywords")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "Location filter")
	searchCmd.Flags().IntVarP(&searchPages, "pages", "p", 0, "Result pages to fetch per keyword")
	searchCmd.Flags().BoolVarP(&searchQuickOnly, "easy-apply", "e", false, "Only listings with quick apply")
	searchCmd.Flags().BoolVarP(&searchDetails, "details", "d", false, "Visit new listings to fetch full details")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// CLI flags win over the config file.
	if cmd.Flags().Changed("keywords") {
		cfg.Keywords = searchKeywords
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = searchLocation
	}
	if cmd.Flags().Changed("pages") {
		cfg.MaxPages = searchPages
	}
	if cmd.Flags().Changed("easy-apply") {
		cfg.QuickApplyOnly = searchQuickOnly
	}
	if cmd.Flags().Changed("details") {
		cfg.FetchDetails = searchDetails
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

	opts, err := discoverOptions(cfg)
	if err != nil {
		return err
	}

	result, err := discover.NewPipeline(store, b).Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	fmt.Printf("Scanned %d listings, %d new\n", result.Scanned, result.Added)
	return nil
}
