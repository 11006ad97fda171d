// Package main provides the easyapply CLI: discover job listings, apply to
// the quick-apply ones, and report on the result.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "easyapply",
	Short: "Automated job application agent",
	Long: "easyapply discovers job listings matching your search, stores them " +
		"deduplicated in PostgreSQL, and drives the board's quick-apply flow " +
		"with the most relevant of your resumes.",
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
