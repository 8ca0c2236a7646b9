// Package linkurl decorates outbound links with tracking parameters and
// strips them again for deduplication. Decoration only ever touches the
// three utm keys below, so Canonicalize(Decorate(u)) == Canonicalize(u).
package linkurl

import "net/url"

const (
	paramSource   = "utm_source"
	paramMedium   = "utm_medium"
	paramCampaign = "utm_campaign"

	// Links are always attributed to the hosting platform.
	sourceTag = "github"
)

// Decorate sets utm_source, utm_medium and utm_campaign on rawURL,
// overwriting existing values for those keys and leaving everything else
// alone. Malformed or relative URLs come back unchanged; a bad link from a
// feed must never abort a run.
func Decorate(rawURL, owner, repo string) string {
	out, _ := rewrite(rawURL, func(q url.Values) {
		q.Set(paramSource, sourceTag)
		q.Set(paramMedium, owner)
		q.Set(paramCampaign, repo)
	})
	return out
}

// Canonicalize strips the three tracking parameters, producing the form
// used as the deduplication key. Unparseable input comes back unchanged.
func Canonicalize(rawURL string) string {
	out, _ := rewrite(rawURL, func(q url.Values) {
		q.Del(paramSource)
		q.Del(paramMedium)
		q.Del(paramCampaign)
	})
	return out
}

// rewrite parses rawURL, lets fn edit the query, and re-serializes. The
// second return reports whether the URL was actually rewritten; callers get
// the original string back untouched when parsing fails.
func rewrite(rawURL string, fn func(url.Values)) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return rawURL, false
	}
	q := u.Query()
	fn(q)
	u.RawQuery = q.Encode()
	return u.String(), true
}
