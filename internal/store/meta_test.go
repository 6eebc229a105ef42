package store

import (
	"context"
	"testing"
)

func TestCSVSnapshot_MissingIsEmpty(t *testing.T) {
	s := createTestStore(t)

	snap, err := s.CSVSnapshot(context.Background())
	if err != nil {
		t.Fatalf("CSVSnapshot failed: %v", err)
	}
	if snap != "" {
		t.Errorf("snapshot = %q, want empty", snap)
	}
}

func TestSetCSVSnapshot_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	const want = "building_id,building_name\na1,Library"
	if err := s.SetCSVSnapshot(ctx, want); err != nil {
		t.Fatalf("SetCSVSnapshot failed: %v", err)
	}

	got, err := s.CSVSnapshot(ctx)
	if err != nil {
		t.Fatalf("CSVSnapshot failed: %v", err)
	}
	if got != want {
		t.Errorf("snapshot = %q, want %q", got, want)
	}

	// Overwrite replaces, not appends.
	if err := s.SetCSVSnapshot(ctx, "replaced"); err != nil {
		t.Fatalf("second SetCSVSnapshot failed: %v", err)
	}
	got, err = s.CSVSnapshot(ctx)
	if err != nil {
		t.Fatalf("CSVSnapshot failed: %v", err)
	}
	if got != "replaced" {
		t.Errorf("snapshot = %q, want %q", got, "replaced")
	}
}

func TestClearCSVSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.SetCSVSnapshot(ctx, "cached"); err != nil {
		t.Fatalf("SetCSVSnapshot failed: %v", err)
	}
	if err := s.ClearCSVSnapshot(ctx); err != nil {
		t.Fatalf("ClearCSVSnapshot failed: %v", err)
	}
	snap, err := s.CSVSnapshot(ctx)
	if err != nil {
		t.Fatalf("CSVSnapshot failed: %v", err)
	}
	if snap != "" {
		t.Errorf("snapshot = %q, want empty after clear", snap)
	}
	if err := s.ClearCSVSnapshot(ctx); err != nil {
		t.Errorf("repeat clear: %v", err)
	}
}
