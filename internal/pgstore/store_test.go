package pgstore

import (
	"os"
	"testing"
	"time"
)

// openTestStore connects to a real Postgres instance for integration testing.
// These tests are skipped unless CSS_TEST_POSTGRES_DSN is set — there is no
// in-process Postgres equivalent to SQLite's ":memory:" database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("CSS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CSS_TEST_POSTGRES_DSN not set; skipping Postgres integration test")
	}
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndRecentLines(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	for i, text := range []string{"hello chat", "lol", "pog"} {
		if err := s.InsertLine(&ChatLine{
			Channel:    "test-channel",
			Username:   "viewer",
			Text:       text,
			ReceivedAt: now.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	lines, err := s.RecentLines("test-channel", 2)
	if err != nil {
		t.Fatalf("RecentLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "pog" {
		t.Errorf("lines[0].Text = %q, want most recent %q", lines[0].Text, "pog")
	}
}

func TestRegisterAndGetModel(t *testing.T) {
	s := openTestStore(t)

	m := &ModelRecord{
		Name:          "test-channel",
		Order:         3,
		Path:          "/models/test-channel.bin",
		TrainedAt:     time.Now().UTC(),
		SentenceCount: 1000,
		TokenCount:    5000,
	}
	if err := s.RegisterModel(m); err != nil {
		t.Fatalf("RegisterModel: %v", err)
	}

	got, err := s.GetModel("test-channel")
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if got == nil {
		t.Fatal("GetModel returned nil for a registered model")
	}
	if got.Order != 3 || got.SentenceCount != 1000 {
		t.Errorf("got = %+v, want order 3, sentence_count 1000", got)
	}
}

func TestGetModelNotFound(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetModel("does-not-exist")
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown model, got %+v", got)
	}
}
