package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/miljoverk/samsvar/cmd/cli/criteria"
	"github.com/miljoverk/samsvar/cmd/cli/report"
	"github.com/spf13/cobra"
)

func init() {
	// Missing .env is fine; the CLI can run against explicit environment variables.
	_ = godotenv.Load()
	rootCmd.AddGroup(report.Group)
	rootCmd.AddCommand(report.Generate)
	rootCmd.AddCommand(report.Extract)
	rootCmd.AddGroup(criteria.Group)
	rootCmd.AddCommand(criteria.List)
	rootCmd.AddCommand(criteria.Show)
}

var rootCmd = &cobra.Command{
	Use:  "samsvar-cli",
	Long: `Command line utilities for the BREEAM compliance report generator`,
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
