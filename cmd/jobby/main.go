// Package main provides the jobby command: the web front end and a terminal
// client for the jobs API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	token      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "jobby",
		Short: "Job search front end for the jobs API",
		Long: "jobby signs in against the jobs API and lets you browse and filter job postings, " +
			"either through server-rendered web pages (serve) or from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file (environment variables still win)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "JWT token for API calls (default $JOBBY_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "List every item instead of the first few")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newLoginCmd(opts),
		newProfileCmd(opts),
		newJobsCmd(opts),
		newJobCmd(opts),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
