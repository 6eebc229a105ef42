package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("foreign_keys", "1"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := s1.AddAudit(ctx, createTestAudit("a1", "Library", "2025-06-01T12:00:00Z")); err != nil {
		t.Fatalf("AddAudit failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	audits, err := s2.ListAudits(ctx)
	if err != nil {
		t.Fatalf("ListAudits failed: %v", err)
	}
	if len(audits) != 1 || audits[0].ID != "a1" {
		t.Errorf("audits = %v, want the record written before reopen", audits)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "nested", "x.db")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestClose_NilSafe(t *testing.T) {
	var s Store
	if err := s.Close(); err != nil {
		t.Errorf("Close on zero store: %v", err)
	}
}
