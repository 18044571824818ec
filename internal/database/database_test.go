package database

import (
	"path/filepath"
	"testing"
)

func TestMetricsRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := InitDB(dbPath); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer CloseDB()

	if got, err := GetMetric("messages_handled"); err != nil || got != 0 {
		t.Errorf("unset metric = (%v, %v), want (0, nil)", got, err)
	}

	if err := SaveMetric("messages_handled", 12); err != nil {
		t.Fatalf("SaveMetric failed: %v", err)
	}
	if got, _ := GetMetric("messages_handled"); got != 12 {
		t.Errorf("metric = %v, want 12", got)
	}

	// Saving again replaces, never duplicates.
	if err := SaveMetric("messages_handled", 15); err != nil {
		t.Fatalf("SaveMetric failed: %v", err)
	}
	if got, _ := GetMetric("messages_handled"); got != 15 {
		t.Errorf("metric = %v, want 15", got)
	}
}
