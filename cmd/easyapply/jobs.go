package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jordan/easyapply-agent/internal/db"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored job listings",
	RunE:  runJobs,
}

var (
	jobsLimit  int
	jobsOffset int
	jobsSearch string
)

func init() {
	jobsCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 25, "Maximum listings to show")
	jobsCmd.Flags().IntVar(&jobsOffset, "offset", 0, "Listings to skip")
	jobsCmd.Flags().StringVarP(&jobsSearch, "search", "s", "", "Filter by title or organization")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
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

	var listings []db.Listing
	if jobsSearch != "" {
		listings, err = store.SearchListings(ctx, jobsSearch, jobsLimit)
	} else {
		listings, err = store.ListListings(ctx, jobsLimit, jobsOffset)
	}
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Organization", "Location", "Quick", "Discovered"})
	for _, l := range listings {
		location := ""
		if l.Location != nil {
			location = *l.Location
		}
		quick := ""
		if l.QuickApply {
			quick = "yes"
		}
		t.AppendRow(table.Row{
			l.ExternalID,
			l.Title,
			l.Organization,
			location,
			quick,
			l.DiscoveredAt.Format("2006-01-02"),
		})
	}
	t.Render()
	return nil
}
