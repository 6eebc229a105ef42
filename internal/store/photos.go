package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// AddPhoto persists a photo asset keyed by its id.
// Writing an existing id replaces the asset.
func (s *Store) AddPhoto(ctx context.Context, p audit.PhotoAsset) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (id, mime_type, created_at, size, filename, blob)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mime_type = excluded.mime_type,
			created_at = excluded.created_at,
			size = excluded.size,
			filename = excluded.filename,
			blob = excluded.blob
	`, p.ID, p.MimeType, p.CreatedAt, p.Size, p.Filename, p.Blob)
	if err != nil {
		return storageErr("add photo", err)
	}
	return nil
}

// GetPhoto retrieves a photo asset by id. ok is false when no asset exists.
func (s *Store) GetPhoto(ctx context.Context, id string) (p audit.PhotoAsset, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mime_type, created_at, size, filename, blob
		FROM photos WHERE id = ?
	`, id)
	err = row.Scan(&p.ID, &p.MimeType, &p.CreatedAt, &p.Size, &p.Filename, &p.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return audit.PhotoAsset{}, false, nil
	}
	if err != nil {
		return audit.PhotoAsset{}, false, storageErr("get photo", err)
	}
	return p, true, nil
}

// GetPhotos resolves a sequence of photo ids, silently skipping any id that
// does not resolve. A dangling reference left by an out-of-band delete is an
// accepted condition, not an error.
func (s *Store) GetPhotos(ctx context.Context, ids []string) ([]audit.PhotoAsset, error) {
	assets := make([]audit.PhotoAsset, 0, len(ids))
	for _, id := range ids {
		p, ok, err := s.GetPhoto(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			assets = append(assets, p)
		}
	}
	return assets, nil
}

// ListPhotos returns metadata for every stored photo, oldest first.
// Blobs are not loaded.
func (s *Store) ListPhotos(ctx context.Context) ([]audit.PhotoAsset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mime_type, created_at, size, filename
		FROM photos ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, storageErr("list photos", err)
	}
	defer rows.Close()

	assets := make([]audit.PhotoAsset, 0)
	for rows.Next() {
		var p audit.PhotoAsset
		if err := rows.Scan(&p.ID, &p.MimeType, &p.CreatedAt, &p.Size, &p.Filename); err != nil {
			return nil, storageErr("list photos", err)
		}
		assets = append(assets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list photos", err)
	}
	return assets, nil
}

// DeletePhoto removes one photo asset. The store does not reference-count:
// deleting an id still referenced by a stored audit leaves a dangling
// reference that normalization does not repair.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id); err != nil {
		return storageErr("delete photo", err)
	}
	return nil
}

// ClearPhotos removes every photo asset.
func (s *Store) ClearPhotos(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photos`); err != nil {
		return storageErr("clear photos", err)
	}
	return nil
}
