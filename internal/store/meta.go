package store

import (
	"context"
	"database/sql"
	"errors"
)

// csvSnapshotKey is the meta-collection key for the cached CSV export.
const csvSnapshotKey = "csvSnapshot"

// CSVSnapshot returns the cached CSV snapshot, or "" when none is stored.
// The snapshot is a performance cache recomputed whenever the audit
// collection changes; it is never authoritative.
func (s *Store) CSVSnapshot(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, csvSnapshotKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("get csv snapshot", err)
	}
	return value, nil
}

// SetCSVSnapshot stores the cached CSV snapshot.
func (s *Store) SetCSVSnapshot(ctx context.Context, snapshot string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, csvSnapshotKey, snapshot)
	if err != nil {
		return storageErr("set csv snapshot", err)
	}
	return nil
}

// ClearCSVSnapshot removes the cached CSV snapshot.
func (s *Store) ClearCSVSnapshot(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM meta WHERE key = ?`, csvSnapshotKey)
	if err != nil {
		return storageErr("clear csv snapshot", err)
	}
	return nil
}
