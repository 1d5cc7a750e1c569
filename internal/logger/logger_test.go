package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("event stored", Fields{"event_sha": "abc123", "outcome": "inserted"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v (output: %s)", err, buf.String())
	}

	if entry["level"] != "INFO" {
		t.Errorf("expected level INFO, got %v", entry["level"])
	}
	if entry["message"] != "event stored" {
		t.Errorf("expected message 'event stored', got %v", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("expected structured fields in entry")
	}
	if fields["event_sha"] != "abc123" {
		t.Errorf("expected event_sha field, got %v", fields["event_sha"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("dropped", nil)
	l.Info("dropped too", nil)
	l.Warn("kept", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "kept") {
		t.Errorf("expected the WARN entry to survive filtering, got %s", lines[0])
	}
}

func TestLoggerIncludesError(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelError, &buf)

	l.Error("store put failed", nil, errors.New("boom"))

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error text in entry, got %s", buf.String())
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("events.extracted", 3)
	m.IncrCounter("events.extracted", 1)
	m.RecordTiming("run", 100*time.Millisecond)
	m.RecordTiming("run", 300*time.Millisecond)

	snap := m.Snapshot()

	counters := snap["counters"].(map[string]int64)
	if counters["events.extracted"] != 4 {
		t.Errorf("expected counter 4, got %d", counters["events.extracted"])
	}

	timings := snap["timings"].(map[string]map[string]string)
	if timings["run"]["average"] != "200ms" {
		t.Errorf("expected 200ms average, got %s", timings["run"]["average"])
	}
}
