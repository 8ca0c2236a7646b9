package section

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const today = "2026-08-31"

func TestParseWithMarkers(t *testing.T) {
	doc := "# My Blog\n\nIntro text.\n\n" + StartMarker + "\n" +
		"- [First](https://a.com/1) - 2026-08-30\n" +
		"- [Second](https://a.com/2) - 2026-08-29\n" +
		EndMarker + "\nFooter.\n"

	d := Parse(doc, today)
	if d.Prefix != "# My Blog\n\nIntro text.\n\n" {
		t.Errorf("prefix = %q", d.Prefix)
	}
	if d.Suffix != "\nFooter.\n" {
		t.Errorf("suffix = %q", d.Suffix)
	}
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(d.Entries))
	}
	if d.Entries[0].Title != "First" || d.Entries[0].URL != "https://a.com/1" || d.Entries[0].Date != "2026-08-30" {
		t.Errorf("first entry = %+v", d.Entries[0])
	}
}

func TestParseNoMarkers(t *testing.T) {
	d := Parse("# Existing readme\n\nSome text.\n\n\n", today)
	if d.Prefix != "# Existing readme\n\nSome text.\n\n" {
		t.Errorf("prefix = %q", d.Prefix)
	}
	if d.Suffix != "\n" {
		t.Errorf("suffix = %q", d.Suffix)
	}
	if len(d.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(d.Entries))
	}

	// All original text survives in the composed output.
	out := d.Compose(nil)
	if !strings.Contains(out, "# Existing readme") {
		t.Error("original text lost")
	}
	if !strings.Contains(out, StartMarker) || !strings.Contains(out, EndMarker) {
		t.Error("markers not inserted")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	d := Parse("", today)
	if d.Prefix != "" {
		t.Errorf("prefix = %q, want empty", d.Prefix)
	}
	if d.Suffix != "\n" {
		t.Errorf("suffix = %q", d.Suffix)
	}
}

func TestParseInvertedMarkers(t *testing.T) {
	doc := EndMarker + "\nstray\n" + StartMarker + "\n"
	d := Parse(doc, today)
	if len(d.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(d.Entries))
	}
	if !strings.HasPrefix(d.Prefix, EndMarker) {
		t.Errorf("whole document should become the prefix, got %q", d.Prefix)
	}
}

func TestParseDefaultsDate(t *testing.T) {
	doc := StartMarker + "\n- [No date](https://a.com/x)\n" + EndMarker
	d := Parse(doc, today)
	if len(d.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(d.Entries))
	}
	if d.Entries[0].Date != today {
		t.Errorf("date = %q, want %q", d.Entries[0].Date, today)
	}
}

func TestParseIgnoresMalformedLines(t *testing.T) {
	doc := StartMarker + "\n" +
		"- [Good](https://a.com/1) - 2026-01-01\n" +
		"random prose\n" +
		"- not a link\n" +
		"* [wrong bullet](https://a.com/2)\n" +
		"\n" +
		"- [Also good](https://a.com/3) - 2026-01-02\n" +
		EndMarker
	d := Parse(doc, today)
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(d.Entries))
	}
	if d.Entries[1].Title != "Also good" {
		t.Errorf("second entry = %+v", d.Entries[1])
	}
}

func TestRenderEmpty(t *testing.T) {
	got := Render(nil)
	want := StartMarker + "\n\n" + EndMarker
	if got != want {
		t.Errorf("Render(nil) = %q, want %q", got, want)
	}
}

func TestComposePreservesOutsideText(t *testing.T) {
	doc := "before\n" + StartMarker + "\n- [Old](https://a.com/o) - 2026-01-01\n" + EndMarker + "\nafter\n"
	d := Parse(doc, today)
	out := d.Compose([]LinkRecord{{Title: "New", URL: "https://a.com/n", Date: "2026-02-02"}})
	want := "before\n" + StartMarker + "\n- [New](https://a.com/n) - 2026-02-02\n" + EndMarker + "\nafter\n"
	if out != want {
		t.Errorf("composed = %q, want %q", out, want)
	}
}

func TestRoundTripStable(t *testing.T) {
	entries := []LinkRecord{
		{Title: "A post", URL: "https://a.com/1", Date: "2026-08-01"},
		{Title: "Another", URL: "https://a.com/2?id=3", Date: "2026-07-15"},
	}
	first := Render(entries)
	reparsed := Parse(first, today)
	second := Render(reparsed.Entries)
	if first != second {
		t.Errorf("round trip not byte-stable:\n%q\n%q", first, second)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain title", "Plain title"},
		{"[Bracketed] title", "Bracketed title"},
		{"  lots   of\twhitespace ", "lots of whitespace"},
		{"", PlaceholderTitle},
		{"[]", PlaceholderTitle},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	titleGen := gen.RegexMatch(`[A-Za-z][A-Za-z0-9 ]{0,30}[A-Za-z0-9]`)
	urlGen := gen.RegexMatch(`https://[a-z]{3,8}\.com/[a-z0-9-]{1,16}`)
	dateGen := gen.RegexMatch(`20[0-9]{2}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9])`)

	properties.Property("parse(render(entries)) == entries", prop.ForAll(
		func(title, url, date string) bool {
			entries := []LinkRecord{{Title: title, URL: url, Date: date}}
			got := Parse(Render(entries), today)
			return len(got.Entries) == 1 && got.Entries[0] == entries[0]
		},
		titleGen, urlGen, dateGen,
	))

	properties.TestingRun(t)
}
