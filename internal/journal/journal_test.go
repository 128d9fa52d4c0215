package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })

	if err := j.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return j
}

func TestMigrate(t *testing.T) {
	j := openTestJournal(t)

	version, err := j.Version()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 3 {
		t.Errorf("expected schema version 3, got %d", version)
	}

	// Migrating again is a no-op.
	if err := j.Migrate(); err != nil {
		t.Errorf("re-migration failed: %v", err)
	}
}

func TestRecordAndReadSearches(t *testing.T) {
	j := openTestJournal(t)

	base := time.Now().Add(-time.Minute)
	records := []SearchRecord{
		{WindowID: 1, Template: "ok_button", Status: StatusFound, DurationMS: 120, StartedAt: base},
		{WindowID: 1, Template: "cancel_button", Status: StatusTimeout, DurationMS: 5000, StartedAt: base.Add(time.Second)},
		{WindowID: 2, Template: "logo", Status: StatusError, DurationMS: 3, Detail: "capture failed", StartedAt: base.Add(2 * time.Second)},
	}
	for _, r := range records {
		if err := j.RecordSearch(r); err != nil {
			t.Fatalf("failed to record search: %v", err)
		}
	}

	got, err := j.RecentSearches(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}

	// Newest first.
	if got[0].Template != "logo" || got[2].Template != "ok_button" {
		t.Errorf("unexpected ordering: %s, %s, %s", got[0].Template, got[1].Template, got[2].Template)
	}
	if got[0].Detail != "capture failed" {
		t.Errorf("detail lost: %q", got[0].Detail)
	}
}

func TestRecentSearchesLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 5; i++ {
		rec := SearchRecord{WindowID: 1, Template: "t", Status: StatusFound, StartedAt: time.Now()}
		if err := j.RecordSearch(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := j.RecentSearches(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
}

func TestSearchStats(t *testing.T) {
	j := openTestJournal(t)

	statuses := []string{StatusFound, StatusFound, StatusTimeout, StatusError}
	for _, s := range statuses {
		if err := j.RecordSearch(SearchRecord{WindowID: 1, Template: "t", Status: s}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := j.SearchStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats[StatusFound] != 2 || stats[StatusTimeout] != 1 || stats[StatusError] != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRecordInput(t *testing.T) {
	j := openTestJournal(t)

	rec := InputRecord{WindowID: 3, Kind: "mouse_down", X: 120, Y: 60}
	if err := j.RecordInput(rec); err != nil {
		t.Fatalf("failed to record input: %v", err)
	}

	var count int
	row := j.conn.QueryRow(`SELECT COUNT(*) FROM input_log WHERE window_id = 3 AND kind = 'mouse_down'`)
	if err := row.Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 input row, got %d", count)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("expected nested directories to be created: %v", err)
	}
	defer j.Close()

	if j.Path() != path {
		t.Errorf("unexpected path %q", j.Path())
	}
}

func TestVersionFreshDatabase(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	version, err := j.Version()
	if err != nil {
		t.Fatalf("fresh database should read as version 0: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestVersionPropagatesQueryErrors(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Migrate(); err != nil {
		t.Fatal(err)
	}
	j.Close()

	if _, err := j.Version(); err == nil {
		t.Error("expected a closed database to surface an error, not version 0")
	}
}
