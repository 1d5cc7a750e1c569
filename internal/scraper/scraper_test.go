package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/gt-events/internal/event"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/sample_matches.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	s := New("", TimestampSkip)
	result, err := s.extract(docFromString(t, loadFixture(t)))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	// Fixture has 5 candidate rows in matches tables: one valid, one TBD,
	// one non-match title, one bad timestamp, plus one valid in the second
	// table. The sidebar table must be ignored entirely.
	if len(result.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result.Events))
	}
	if result.Skipped != 3 {
		t.Errorf("expected 3 skipped rows, got %d", result.Skipped)
	}

	first := result.Events[0]
	if first.EventName != "team alpha - team beta" {
		t.Errorf("expected 'team alpha - team beta', got %q", first.EventName)
	}
	if first.EventURL != "/csgo/match/team-alpha-vs-team-beta-1001" {
		t.Errorf("unexpected event URL %q", first.EventURL)
	}
	want := time.Date(2024, 3, 15, 18, 30, 0, 0, time.Local).UnixMilli()
	if first.EventTimestamp != want {
		t.Errorf("expected timestamp %d, got %d", want, first.EventTimestamp)
	}
	if first.EventSHA != event.Fingerprint(event.GameName, first.EventName) {
		t.Error("event SHA should be the fingerprint of game and name")
	}

	// Document order: second table's row comes last.
	second := result.Events[1]
	if second.EventName != "team f - team g" {
		t.Errorf("expected 'team f - team g', got %q", second.EventName)
	}
}

func TestExtractIsReproducible(t *testing.T) {
	s := New("", TimestampSkip)
	html := loadFixture(t)

	a, err := s.extract(docFromString(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	b, err := s.extract(docFromString(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if len(a.Events) != len(b.Events) {
		t.Fatalf("event counts differ: %d vs %d", len(a.Events), len(b.Events))
	}
	for i := range a.Events {
		if a.Events[i].EventSHA != b.Events[i].EventSHA {
			t.Errorf("event %d fingerprint differs across extractions", i)
		}
		if a.Events[i].ID == b.Events[i].ID {
			t.Errorf("event %d surrogate id should be fresh per extraction", i)
		}
	}
}

func TestExtractAbortPolicy(t *testing.T) {
	s := New("", TimestampAbort)
	_, err := s.extract(docFromString(t, loadFixture(t)))
	if err == nil {
		t.Fatal("expected abort on bad timestamp row")
	}
	if !strings.Contains(err.Error(), "timestamp") {
		t.Errorf("expected timestamp error, got %v", err)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	s := New("", TimestampSkip)
	result, err := s.extract(docFromString(t, "<html><body><p>nothing here</p></body></html>"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(result.Events) != 0 || result.Skipped != 0 {
		t.Errorf("expected empty result, got %d events, %d skipped", len(result.Events), result.Skipped)
	}
}

func TestFetchEvents(t *testing.T) {
	html := loadFixture(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("expected User-Agent %q, got %q", UserAgent, got)
		}
		w.Write([]byte(html))
	}))
	defer server.Close()

	s := New(server.URL, TimestampSkip)
	result, err := s.FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(result.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(result.Events))
	}
}

func TestFetchEventsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := New(server.URL, TimestampSkip)
	if _, err := s.FetchEvents(context.Background()); err == nil {
		t.Fatal("expected fetch failure on 404")
	}
}

func TestFetchEventsRetriesServerErrors(t *testing.T) {
	var attempts int
	html := loadFixture(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(html))
	}))
	defer server.Close()

	s := New(server.URL, TimestampSkip)
	result, err := s.FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("FetchEvents failed after retry: %v", err)
	}
	if attempts < 2 {
		t.Errorf("expected a retried request, got %d attempts", attempts)
	}
	if len(result.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(result.Events))
	}
}
