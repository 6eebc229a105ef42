package store

import (
	"path/filepath"
	"testing"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// createTestStore opens a store backed by a temp-dir database and closes it
// when the test finishes.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestAudit builds a small well-formed audit.
func createTestAudit(id, building, createdAt string) audit.BuildingAudit {
	floors := []string{"SITE", "1"}
	features := []string{"Ramp available", "Elevator/lift"}
	m := audit.NewEmptyMatrix(features, floors)
	m.SetCell("Ramp available", "1", audit.MatrixCell{Present: true, Notes: "rear entrance"})
	return audit.BuildingAudit{
		ID:           id,
		BuildingName: building,
		Floors:       floors,
		Features:     features,
		Matrix:       m,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}
