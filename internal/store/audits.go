package store

import (
	"context"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// AddAudit persists a full BuildingAudit snapshot keyed by its id.
// Writing an existing id replaces the record.
func (s *Store) AddAudit(ctx context.Context, a audit.BuildingAudit) error {
	payload, err := marshalRecord(a)
	if err != nil {
		return storageErr("add audit", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (id, created_at, payload) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			payload = excluded.payload
	`, a.ID, a.CreatedAt, payload)
	if err != nil {
		return storageErr("add audit", err)
	}
	return nil
}

// ListAudits returns every stored audit, newest createdAt first.
//
// Ordering compares the RFC 3339 createdAt strings lexicographically, which
// is safe because the format is zero-padded; equal timestamps tie-break on id
// for deterministic results.
//
// Every record passes through the versioned decode in internal/audit on the
// way out. A record whose stored shape needed repair (legacy boolean cells,
// missing cells, mistyped fields) is rewritten in place before being
// returned, so downstream serializers only ever see canonical cells. Repairs
// are logged and never surfaced to the user.
func (s *Store) ListAudits(ctx context.Context) ([]audit.BuildingAudit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload FROM audits
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, storageErr("list audits", err)
	}
	defer rows.Close()

	type repair struct {
		id    string
		audit audit.BuildingAudit
	}

	var audits []audit.BuildingAudit
	var repairs []repair
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, storageErr("list audits", err)
		}
		a, changed, err := audit.DecodeAudit([]byte(payload))
		if err != nil {
			return nil, storageErr("list audits", err)
		}
		if changed {
			repairs = append(repairs, repair{id: id, audit: a})
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list audits", err)
	}

	// Write-backs happen after the cursor is closed: the pool holds a single
	// connection, so interleaving writes with an open read would deadlock.
	for _, r := range repairs {
		if err := s.AddAudit(ctx, r.audit); err != nil {
			return nil, err
		}
		s.log.Info("normalization repair", "audit_id", r.id)
	}

	if audits == nil {
		audits = []audit.BuildingAudit{}
	}
	return audits, nil
}

// DeleteAudit removes one audit record. Referenced photos are not
// cascade-deleted; the caller collects the audit's PhotoIDs and deletes each
// via DeletePhoto to avoid orphaned blobs.
func (s *Store) DeleteAudit(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audits WHERE id = ?`, id); err != nil {
		return storageErr("delete audit", err)
	}
	return nil
}

// ClearAudits removes every audit record. Photos are not cascade-deleted.
func (s *Store) ClearAudits(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audits`); err != nil {
		return storageErr("clear audits", err)
	}
	return nil
}
