// Package section reads and writes the managed region of a markdown
// document. The region is delimited by two sentinel comment lines; text
// outside it is preserved byte-for-byte. The body is always rebuilt from the
// parsed records, so lines inside the region that don't match the entry
// grammar are dropped on the next write.
package section

import (
	"regexp"
	"strings"
)

const (
	StartMarker = "<!-- RSS-LINKS:START -->"
	EndMarker   = "<!-- RSS-LINKS:END -->"
)

// PlaceholderTitle is used when a feed item carries no usable title.
const PlaceholderTitle = "(untitled)"

// entryPattern matches one managed line: a dash, a bracketed title, a
// parenthesized URL, and an optional " - YYYY-MM-DD" suffix.
var entryPattern = regexp.MustCompile(`^- \[([^\]]*)\]\(([^)]*)\)(?: - (\d{4}-\d{2}-\d{2}))?$`)

// LinkRecord is one tracked entry. Records are transient: they exist only
// between parsing (or fetching) and the next render.
type LinkRecord struct {
	Title string
	URL   string
	Date  string // YYYY-MM-DD
}

// NewRecord builds a record with a sanitized title: brackets removed,
// whitespace collapsed, placeholder when nothing remains.
func NewRecord(title, url, date string) LinkRecord {
	return LinkRecord{Title: CleanTitle(title), URL: url, Date: date}
}

// CleanTitle strips the characters that would break the link grammar and
// collapses runs of whitespace.
func CleanTitle(title string) string {
	title = strings.NewReplacer("[", "", "]", "").Replace(title)
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return PlaceholderTitle
	}
	return title
}

// Document is the parse result: everything before the managed region,
// everything after it, and the records found inside.
type Document struct {
	Prefix  string
	Suffix  string
	Entries []LinkRecord
}

// Parse splits doc around the sentinel markers. When the markers are absent
// (or inverted) the whole document becomes the prefix and the managed region
// will be appended on the next Compose. Entries missing a date suffix get
// today, in YYYY-MM-DD form.
func Parse(doc, today string) Document {
	start := strings.Index(doc, StartMarker)
	end := -1
	if start >= 0 {
		if rel := strings.Index(doc[start+len(StartMarker):], EndMarker); rel >= 0 {
			end = start + len(StartMarker) + rel
		}
	}
	if start < 0 || end < 0 {
		prefix := strings.TrimRight(doc, " \t\r\n")
		if prefix != "" {
			prefix += "\n\n"
		}
		return Document{Prefix: prefix, Suffix: "\n"}
	}

	body := doc[start+len(StartMarker) : end]
	var entries []LinkRecord
	for _, line := range strings.Split(body, "\n") {
		m := entryPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		date := m[3]
		if date == "" {
			date = today
		}
		entries = append(entries, LinkRecord{Title: m[1], URL: m[2], Date: date})
	}

	return Document{
		Prefix:  doc[:start],
		Suffix:  doc[end+len(EndMarker):],
		Entries: entries,
	}
}

// Render serializes entries as the full managed region, markers included.
// An empty list renders as the two markers separated by a blank line.
func Render(entries []LinkRecord) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = "- [" + e.Title + "](" + e.URL + ") - " + e.Date
	}
	return StartMarker + "\n" + strings.Join(lines, "\n") + "\n" + EndMarker
}

// Compose rebuilds the whole document with entries in place of the managed
// region. The prefix and suffix are emitted verbatim.
func (d Document) Compose(entries []LinkRecord) string {
	return d.Prefix + Render(entries) + d.Suffix
}

// Seed is the document used when the target file does not exist yet.
func Seed() string {
	return "# Links\n\n" + Render(nil) + "\n"
}
