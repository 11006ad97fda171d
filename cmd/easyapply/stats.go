package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show listing and application counts",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetStats(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"Listings", stats.TotalListings},
		{"Applications", stats.TotalApplications},
		{"Submitted", stats.Submitted()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Quick applied", stats.QuickApplied},
		{"Applied", stats.Applied},
		{"External", stats.External},
		{"Pending", stats.Pending},
		{"Skipped", stats.Skipped},
		{"Failed", stats.Failed},
	})
	t.Render()
	return nil
}
