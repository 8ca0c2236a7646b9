package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pransh15/rss-action/internal/browser"
	"github.com/pransh15/rss-action/internal/config"
	"github.com/pransh15/rss-action/internal/feed"
	"github.com/pransh15/rss-action/internal/githost"
	"github.com/pransh15/rss-action/internal/history"
	"github.com/pransh15/rss-action/internal/run"
	"github.com/pransh15/rss-action/internal/store"
)

func runPipeline(cmd *cobra.Command, args []string) error {
	// Pick up a local .env before resolving config; useful for standalone
	// runs where the token isn't exported.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !flagDryRun {
		if err := cfg.RequirePublish(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	pipeline := &run.Pipeline{
		Fetcher: feed.NewRSSFetcher(),
		Store:   store.Files{},
		Out:     os.Stdout,
		DryRun:  flagDryRun,
	}

	if !flagDryRun {
		host, err := githost.NewClient(cfg.Token, cfg.Repository)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		pipeline.Host = host

		if journal, err := history.Open(config.HistoryPath()); err == nil {
			defer journal.Close()
			pipeline.Journal = journal
		} else {
			fmt.Printf("[warn] %v\n", err)
		}
	}

	out, err := pipeline.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	printSummary(out)
	if err := writeActionOutputs(out.PRURL, out.Added); err != nil {
		fmt.Printf("[warn] %v\n", err)
	}

	if flagOpen && out.PRURL != "" {
		if err := browser.Open(out.PRURL); err != nil {
			fmt.Printf("[warn] opening browser: %v\n", err)
		}
	}
	return nil
}

// writeActionOutputs appends pr_url and added to $GITHUB_OUTPUT when the
// binary runs as a GitHub Actions step.
func writeActionOutputs(prURL string, added int) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("writing step outputs: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "pr_url=%s\nadded=%s\n", prURL, strconv.Itoa(added))
	if err != nil {
		return fmt.Errorf("writing step outputs: %w", err)
	}
	return nil
}
