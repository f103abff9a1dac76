package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLogWriteAndRead(t *testing.T) {
	log, _ := newTestLog(t)

	events := []Event{
		{Time: time.Now().UTC(), Level: "INFO", Type: EventSessionStarted, Message: "session S-00001 started"},
		{Time: time.Now().UTC(), Level: "INFO", Type: EventStageTransitioned, Message: "moved to define"},
		{Time: time.Now().UTC(), Level: "WARN", Type: EventUpstreamDegraded, Message: "store offline"},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	all, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	warns, err := log.Read(EventFilter{Level: "WARN"})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(warns) != 1 || warns[0].Type != EventUpstreamDegraded {
		t.Errorf("expected the degraded event, got %+v", warns)
	}

	byType, _ := log.Read(EventFilter{Type: EventSessionStarted})
	if len(byType) != 1 {
		t.Errorf("expected 1 session event, got %d", len(byType))
	}
}

func TestEventLogTimeFilter(t *testing.T) {
	log, _ := newTestLog(t)

	old := time.Now().UTC().Add(-2 * time.Hour)
	recent := time.Now().UTC()
	_ = log.Write(Event{Time: old, Level: "INFO", Type: EventSessionStarted})
	_ = log.Write(Event{Time: recent, Level: "INFO", Type: EventSessionStarted})

	cutoff := time.Now().UTC().Add(-1 * time.Hour)
	got, err := log.Read(EventFilter{Since: &cutoff})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 recent event, got %d", len(got))
	}
}

func TestEventLogSkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)
	_ = log.Write(Event{Time: time.Now().UTC(), Level: "INFO", Type: EventSessionStarted})

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log for corruption: %v", err)
	}
	_, _ = f.WriteString("this is not json\n")
	_ = f.Close()

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected malformed line skipped, got %d events", len(got))
	}
}

func TestEmitToleratesNilLog(t *testing.T) {
	// Must not panic.
	Emit(nil, "INFO", EventSessionStarted, "no log configured", nil)
}

func TestReadMissingFile(t *testing.T) {
	log, path := newTestLog(t)
	_ = log.Close()
	_ = os.Remove(path)

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no events, got %d", len(got))
	}
}
