package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// maxItemsPerFeed bounds how many of a feed's most recent items one run
// will consume, so a single busy feed cannot flood the managed list.
const maxItemsPerFeed = 20

// Item is one raw entry from a feed, before decoration.
type Item struct {
	Title     string
	Link      string
	Published time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Item, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feedURL, err)
	}

	items := parsed.Items
	if len(items) > maxItemsPerFeed {
		items = items[:maxItemsPerFeed]
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		var pub time.Time
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		out = append(out, Item{
			Title:     item.Title,
			Link:      item.Link,
			Published: pub,
		})
	}
	return out, nil
}

// Result carries every successfully fetched item plus one error per failed
// feed. A failed feed never aborts the others.
type Result struct {
	Items  []Item
	Errors []error
}

// FetchAll fetches each feed concurrently with a bounded per-feed wait, but
// flattens results in configured URL order: list order is part of the
// merge's ordering contract.
func FetchAll(ctx context.Context, fetcher Fetcher, feedURLs []string, perFeedTimeout time.Duration) Result {
	var wg sync.WaitGroup
	perFeed := make([][]Item, len(feedURLs))
	errs := make([]error, len(feedURLs))

	for i, u := range feedURLs {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, perFeedTimeout)
			defer cancel()
			perFeed[i], errs[i] = fetcher.Fetch(fctx, u)
		}(i, u)
	}
	wg.Wait()

	var result Result
	for i := range feedURLs {
		if errs[i] != nil {
			result.Errors = append(result.Errors, errs[i])
			continue
		}
		result.Items = append(result.Items, perFeed[i]...)
	}
	return result
}
