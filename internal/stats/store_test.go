package stats

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndTotals(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	sessions := []Session{
		{StartedAt: base, EndedAt: base.Add(2 * time.Minute), WordsRead: 600, WPM: 300, Source: "article.txt"},
		{StartedAt: base.Add(time.Hour), EndedAt: base.Add(time.Hour + time.Minute), WordsRead: 450, WPM: 450, Source: "stdin"},
	}
	for _, sess := range sessions {
		if err := s.RecordSession(sess); err != nil {
			t.Fatal(err)
		}
	}

	totals, err := s.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", totals.Sessions)
	}
	if totals.WordsRead != 1050 {
		t.Errorf("words = %d, want 1050", totals.WordsRead)
	}
	if totals.TimeRead != 3*time.Minute {
		t.Errorf("time = %v, want 3m", totals.TimeRead)
	}
}

func TestRecordSkipsEmptySession(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	if err := s.RecordSession(Session{StartedAt: now, EndedAt: now, WordsRead: 0, WPM: 300}); err != nil {
		t.Fatal(err)
	}
	totals, err := s.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.Sessions != 0 {
		t.Errorf("sessions = %d, want 0", totals.Sessions)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := s.RecordSession(Session{
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + time.Minute),
			WordsRead: 100 + i,
			WPM:       300,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	for i := range recent {
		if want := 104 - i; recent[i].WordsRead != want {
			t.Errorf("recent[%d].WordsRead = %d, want %d", i, recent[i].WordsRead, want)
		}
	}
}

func TestOpenReusesDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := s.RecordSession(Session{StartedAt: now, EndedAt: now.Add(time.Minute), WordsRead: 200, WPM: 250}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	totals, err := s2.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.Sessions != 1 || totals.WordsRead != 200 {
		t.Errorf("totals = %+v, want 1 session / 200 words", totals)
	}
}
