// Package run wires the pipeline: fetch feeds, decorate links, merge into
// the managed section, write the file and publish the change as a pull
// request. External collaborators come in as interfaces so the whole flow
// is testable with fakes.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pransh15/rss-action/internal/config"
	"github.com/pransh15/rss-action/internal/feed"
	"github.com/pransh15/rss-action/internal/githost"
	"github.com/pransh15/rss-action/internal/history"
	"github.com/pransh15/rss-action/internal/linkurl"
	"github.com/pransh15/rss-action/internal/merge"
	"github.com/pransh15/rss-action/internal/section"
)

type Store interface {
	Read(path string) (content string, found bool, err error)
	Write(path, content string) error
}

type Host interface {
	Publish(ctx context.Context, pr githost.PullRequest) (string, error)
}

type Pipeline struct {
	Fetcher feed.Fetcher
	Store   Store
	Host    Host
	Journal *history.Journal // optional; failures are warnings
	Now     func() time.Time
	Out     io.Writer // warnings and progress; defaults to stdout
	DryRun  bool
}

// Outcome is what a run surfaces: the PR URL (empty when nothing changed or
// on dry runs) and the merge counts.
type Outcome struct {
	PRURL   string
	Added   int
	Evicted int
	Changed bool
}

// Run executes one complete pass. A run with no new unique links is a
// successful no-op: no write, no PR, zero counts. Per-feed failures are
// warnings; storage and publish failures are fatal.
func (p *Pipeline) Run(ctx context.Context, cfg config.Config) (Outcome, error) {
	started := p.now()
	today := started.Format("2006-01-02")

	fetched := feed.FetchAll(ctx, p.Fetcher, cfg.FeedURLs, cfg.FetchTimeout)
	for _, err := range fetched.Errors {
		p.warnf("[warn] %v", err)
	}

	fresh := make([]section.LinkRecord, 0, len(fetched.Items))
	for _, item := range fetched.Items {
		date := today
		if !item.Published.IsZero() {
			date = item.Published.Format("2006-01-02")
		}
		fresh = append(fresh, section.NewRecord(
			item.Title,
			linkurl.Decorate(item.Link, cfg.Owner(), cfg.RepoName()),
			date,
		))
	}

	content, found, err := p.Store.Read(cfg.FilePath)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading %s: %w", cfg.FilePath, err)
	}
	if !found {
		content = section.Seed()
	}

	doc := section.Parse(content, today)
	merged := merge.Merge(fresh, doc.Entries, cfg.MaxLinks)
	if merged.Added == 0 {
		return Outcome{}, nil
	}

	final := doc.Compose(merged.Final)
	outcome := Outcome{Added: merged.Added, Evicted: merged.Evicted, Changed: true}
	if p.DryRun {
		return outcome, nil
	}

	if err := p.Store.Write(cfg.FilePath, final); err != nil {
		return Outcome{}, fmt.Errorf("writing %s: %w", cfg.FilePath, err)
	}

	branch := fmt.Sprintf("%s-%s", cfg.BranchPrefix, started.UTC().Format("20060102-150405"))
	url, err := p.Host.Publish(ctx, githost.PullRequest{
		Branch:  branch,
		Base:    cfg.BaseBranch,
		Path:    cfg.FilePath,
		Content: final,
		Title:   Summary(merged.Added, merged.Evicted),
		Body:    prBody(merged),
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("publishing pull request: %w", err)
	}
	outcome.PRURL = url

	if p.Journal != nil {
		err := p.Journal.Record(history.Run{
			StartedAt: started,
			Added:     merged.Added,
			Evicted:   merged.Evicted,
			PRURL:     url,
		})
		if err != nil {
			p.warnf("[warn] %v", err)
		}
	}

	return outcome, nil
}

// Summary renders the human-readable change description used for the PR
// title and commit message.
func Summary(added, evicted int) string {
	s := fmt.Sprintf("Update links: %d added", added)
	if evicted > 0 {
		s += fmt.Sprintf(", %d evicted", evicted)
	}
	return s
}

// prBody lists the newly added records; the new items sit at the head of
// the merged list.
func prBody(m merge.Result) string {
	body := fmt.Sprintf("Automated update: %d new link(s) from the configured feeds.\n\n", m.Added)
	// With a small cap some new entries may already have been evicted; only
	// the survivors at the head of the list are listed.
	head := m.Added
	if head > len(m.Final) {
		head = len(m.Final)
	}
	for _, e := range m.Final[:head] {
		body += fmt.Sprintf("- [%s](%s) - %s\n", e.Title, e.URL, e.Date)
	}
	if m.Evicted > 0 {
		body += fmt.Sprintf("\n%d oldest entr%s evicted to stay under the cap.\n",
			m.Evicted, plural(m.Evicted, "y", "ies"))
	}
	return body
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) warnf(format string, args ...any) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format+"\n", args...)
}
