package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j, path
}

func TestRecordAndRecent(t *testing.T) {
	j, _ := openTestJournal(t)

	runs := []Run{
		{StartedAt: time.Now().Add(-2 * time.Hour), Added: 1, Evicted: 0, PRURL: "https://github.com/o/r/pull/1"},
		{StartedAt: time.Now().Add(-1 * time.Hour), Added: 3, Evicted: 2, PRURL: "https://github.com/o/r/pull/2"},
	}
	for _, r := range runs {
		if err := j.Record(r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("recent = %d runs, want 2", len(got))
	}
	// Newest first.
	if got[0].Added != 3 || got[0].Evicted != 2 {
		t.Errorf("newest run = %+v", got[0])
	}
	if got[1].PRURL != "https://github.com/o/r/pull/1" {
		t.Errorf("oldest run = %+v", got[1])
	}
}

func TestRecentLimit(t *testing.T) {
	j, _ := openTestJournal(t)
	for i := 0; i < 5; i++ {
		if err := j.Record(Run{StartedAt: time.Now(), Added: i}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := j.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("recent = %d runs, want 3", len(got))
	}
}

func TestPrune(t *testing.T) {
	j, _ := openTestJournal(t)

	old := Run{StartedAt: time.Now().Add(-40 * 24 * time.Hour), Added: 1}
	fresh := Run{StartedAt: time.Now(), Added: 2}
	if err := j.Record(old); err != nil {
		t.Fatal(err)
	}
	if err := j.Record(fresh); err != nil {
		t.Fatal(err)
	}

	deleted, err := j.Prune(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	got, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Added != 2 {
		t.Errorf("remaining runs = %+v", got)
	}
}

func TestStats(t *testing.T) {
	j, path := openTestJournal(t)
	if err := j.Record(Run{StartedAt: time.Now(), Added: 1}); err != nil {
		t.Fatal(err)
	}

	count, size, err := j.Stats(path)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}
}
