package seed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//agenda//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:holiday-1\r\n" +
	"DTSTART;VALUE=DATE:20240704\r\n" +
	"DTEND;VALUE=DATE:20240705\r\n" +
	"SUMMARY:Independence Day\r\n" +
	"CATEGORIES:Holiday,Federal\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:meeting-1\r\n" +
	"DTSTART:20240612T093000Z\r\n" +
	"DTEND:20240612T101500Z\r\n" +
	"SUMMARY:Planning\r\n" +
	"DESCRIPTION:Quarterly planning\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken-1\r\n" +
	"DTSTART:20240612T093000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// ============================================================
// Embedded
// ============================================================

func TestEmbeddedSeedIsValid(t *testing.T) {
	evs, err := Embedded{}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) == 0 {
		t.Fatal("embedded seed should not be empty")
	}

	s := events.NewStore(nil)
	res := s.Load(evs, nil)
	if res.Skipped != 0 {
		t.Fatalf("embedded seed has %d invalid records", res.Skipped)
	}
	if res.Seeded != len(evs) {
		t.Fatalf("seeded %d, want %d", res.Seeded, len(evs))
	}
	for _, e := range s.All() {
		if e.Origin != events.OriginSeed {
			t.Fatalf("event %d origin = %q", e.ID, e.Origin)
		}
	}
}

// ============================================================
// ICS
// ============================================================

func TestParseICS(t *testing.T) {
	evs, err := ParseICS([]byte(sampleICS))
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events (summary-less one skipped), got %d", len(evs))
	}

	hol := evs[0]
	if hol.Title != "Independence Day" || hol.Date != calendar.MustNew(2024, 7, 4) {
		t.Fatalf("unexpected all-day event %+v", hol)
	}
	if hol.Time != "All day" || hol.DurationMinutes != 1440 {
		t.Fatalf("all-day time/duration = %q/%d", hol.Time, hol.DurationMinutes)
	}
	if hol.Category != "Holiday" {
		t.Fatalf("category = %q", hol.Category)
	}

	mtg := evs[1]
	if mtg.Time != "09:30" || mtg.DurationMinutes != 45 {
		t.Fatalf("timed event time/duration = %q/%d", mtg.Time, mtg.DurationMinutes)
	}
	if mtg.Date != calendar.MustNew(2024, 6, 12) {
		t.Fatalf("date = %s", mtg.Date)
	}
	if mtg.Description != "Quarterly planning" {
		t.Fatalf("description = %q", mtg.Description)
	}
}

func TestParseICSEmpty(t *testing.T) {
	if _, err := ParseICS([]byte("  \n")); err == nil {
		t.Fatal("expected error for empty body")
	}
}

// ============================================================
// File
// ============================================================

func TestFileSourceJSONAndICS(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "seed.json")
	os.WriteFile(jsonPath, []byte(`[{"date":"2024-06-01","time":"10:00","duration":30,"title":"Call","color":"green"}]`), 0o644)
	evs, err := File{Path: jsonPath}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 1 || evs[0].Title != "Call" {
		t.Fatalf("unexpected json events %+v", evs)
	}

	icsPath := filepath.Join(dir, "seed.ics")
	os.WriteFile(icsPath, []byte(sampleICS), 0o644)
	evs, err = File{Path: icsPath}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 ics events, got %d", len(evs))
	}
}

func TestFileSourceBadDateSkipsOneRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	os.WriteFile(path, []byte(`[
		{"date":"2024-02-30","time":"10:00","duration":30,"title":"Bad","color":"green"},
		{"date":"2024-06-01","time":"11:00","duration":30,"title":"Good","color":"green"}
	]`), 0o644)

	s := events.NewStore(nil)
	res := s.LoadFrom(context.Background(), File{Path: path}, nil)
	if res.Degraded() {
		t.Fatalf("one bad date must not fail the seed: %v", res.SeedErr)
	}
	if res.Seeded != 1 || res.Skipped != 1 {
		t.Fatalf("seeded=%d skipped=%d, want 1 and 1", res.Seeded, res.Skipped)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := File{Path: filepath.Join(t.TempDir(), "nope.json")}.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// ============================================================
// HTTP
// ============================================================

func TestHTTPSourceContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Write([]byte(sampleICS))
	}))
	defer srv.Close()

	evs, err := NewHTTP(srv.URL + "/feed").Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
}

func TestHTTPSourceJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"date":"2024-06-01","time":"10:00","duration":30,"title":"Call","color":"green"}]`))
	}))
	defer srv.Close()

	evs, err := NewHTTP(srv.URL + "/seed.json").Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
}

func TestHTTPSourceBadStatusDegradesLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	persisted := []events.Event{{
		ID: 7, Date: calendar.MustNew(2024, 6, 1), Time: "10:00", DurationMinutes: 30,
		Title: "Mine", Color: events.ColorBlue,
	}}
	s := events.NewStore(nil)
	res := s.LoadFrom(context.Background(), NewHTTP(srv.URL), persisted)
	if !res.Degraded() {
		t.Fatal("load should be degraded")
	}
	if s.Len() != 1 {
		t.Fatalf("persisted events should survive, len = %d", s.Len())
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://example.com/private/abc123.ics?token=xyz")
	if strings.Contains(got, "abc123") || strings.Contains(got, "xyz") {
		t.Fatalf("secret leaked: %q", got)
	}
	if !strings.HasPrefix(got, "https://example.com") {
		t.Fatalf("host missing: %q", got)
	}
}

// ============================================================
// Resolve
// ============================================================

func TestResolve(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", "seed.Embedded"},
		{"embedded", "seed.Embedded"},
		{"none", "<nil>"},
		{"https://example.com/a.ics", "*seed.HTTP"},
		{"/tmp/seed.json", "seed.File"},
	}
	for _, tt := range tests {
		src, err := Resolve(tt.source)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.source, err)
		}
		var got string
		switch src.(type) {
		case nil:
			got = "<nil>"
		case Embedded:
			got = "seed.Embedded"
		case *HTTP:
			got = "*seed.HTTP"
		case File:
			got = "seed.File"
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}

	if _, err := Resolve("ftp://example.com/x"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

// ============================================================
// Refresher
// ============================================================

type countingSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSource) Fetch(context.Context) ([]events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []events.Event{{Date: calendar.MustNew(2024, 1, 1), Time: "All day", DurationMinutes: 1440, Title: "x", Color: events.ColorBlue}}, nil
}

func TestRefresherRunOnceDelivers(t *testing.T) {
	src := &countingSource{}
	var got []events.Event
	r, err := NewRefresher(src, "@every 1h", func(evs []events.Event, err error) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		got = evs
	})
	if err != nil {
		t.Fatal(err)
	}
	r.RunOnce()
	if len(got) != 1 || src.calls != 1 {
		t.Fatalf("delivered %d events after %d calls", len(got), src.calls)
	}
}

func TestRefresherDeliversErrors(t *testing.T) {
	src := &countingSource{err: errors.New("offline")}
	var gotErr error
	r, err := NewRefresher(src, "@every 1h", func(_ []events.Event, err error) { gotErr = err })
	if err != nil {
		t.Fatal(err)
	}
	r.RunOnce()
	if gotErr == nil {
		t.Fatal("expected fetch error to be delivered")
	}
}

func TestRefresherBadSchedule(t *testing.T) {
	if _, err := NewRefresher(Embedded{}, "not a schedule", nil); err == nil {
		t.Fatal("expected schedule parse error")
	}
	if _, err := NewRefresher(nil, "@every 1h", nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestRefresherStartStop(t *testing.T) {
	r, err := NewRefresher(Embedded{}, "@every 1h", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	r.Stop()
}
