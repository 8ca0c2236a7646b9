package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagDryRun bool
	flagOpen   bool
)

var rootCmd = &cobra.Command{
	Use:   "rss-action",
	Short: "Merge RSS/Atom feed links into a markdown file and open a PR",
	Long: `rss-action polls the configured feeds, merges newly discovered links into
the managed section of a markdown file, and publishes the change as a pull
request. A run with nothing new is a silent no-op.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "fetch and merge but skip the write and pull request")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "open the created pull request in the browser")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rss-action %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
