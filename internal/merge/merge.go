// Package merge folds freshly fetched links into the previously recorded
// list: dedup against existing entries by canonical URL, newest first, and
// evict from the tail once the cap is exceeded.
package merge

import (
	"github.com/pransh15/rss-action/internal/linkurl"
	"github.com/pransh15/rss-action/internal/section"
)

// Result reports the merged list and what changed. Added == 0 means the
// file content is unchanged and nothing downstream should run.
type Result struct {
	Final   []section.LinkRecord
	Added   int
	Evicted int
}

// Merge combines fresh items with existing entries. Fresh items are only
// deduplicated against existing entries, not against each other: two feeds
// carrying the same story in one run both survive. Order is fetch order for
// fresh items, then prior file order; no secondary sort.
func Merge(fresh, existing []section.LinkRecord, limit int) Result {
	if limit < 1 {
		limit = 1
	}

	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[linkurl.Canonicalize(e.URL)] = struct{}{}
	}

	var added []section.LinkRecord
	for _, f := range fresh {
		if _, dup := seen[linkurl.Canonicalize(f.URL)]; dup {
			continue
		}
		added = append(added, f)
	}
	if len(added) == 0 {
		return Result{Final: existing}
	}

	final := make([]section.LinkRecord, 0, len(added)+len(existing))
	final = append(final, added...)
	final = append(final, existing...)

	evicted := 0
	if len(final) > limit {
		evicted = len(final) - limit
		final = final[:limit]
	}

	return Result{Final: final, Added: len(added), Evicted: evicted}
}
