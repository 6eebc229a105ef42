package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// GetConfig returns the persisted configuration.
//
// If no config exists, a default config at the current version is created,
// persisted, and returned. If the persisted record carries an older version,
// only its version field is rewritten in place (a forward migration never
// loses floor/feature data). If the record carries a *newer* version than
// this build understands (future data read by older code), it is deliberately
// discarded and replaced with a fresh default: an unknown forward schema
// cannot be interpreted safely, so this is a documented safety fallback, not
// silent data loss.
func (s *Store) GetConfig(ctx context.Context) (audit.Config, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM config WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		fresh := audit.DefaultConfig()
		if err := s.SetConfig(ctx, fresh); err != nil {
			return audit.Config{}, err
		}
		return fresh, nil
	}
	if err != nil {
		return audit.Config{}, storageErr("get config", err)
	}

	cfg, err := unmarshalConfig(payload)
	if err != nil {
		return audit.Config{}, storageErr("get config", err)
	}

	switch {
	case cfg.Version == audit.ConfigVersion:
		return cfg, nil

	case cfg.Version < audit.ConfigVersion:
		migrated := cfg.Clone()
		migrated.Version = audit.ConfigVersion
		if err := s.SetConfig(ctx, migrated); err != nil {
			return audit.Config{}, err
		}
		s.log.Info("config migrated forward",
			"from_version", cfg.Version,
			"to_version", audit.ConfigVersion)
		return migrated, nil

	default:
		// Unknown forward schema: reset to defaults.
		s.log.Warn("config version newer than this build, resetting to defaults",
			"stored_version", cfg.Version,
			"supported_version", audit.ConfigVersion)
		fresh := audit.DefaultConfig()
		if err := s.SetConfig(ctx, fresh); err != nil {
			return audit.Config{}, err
		}
		return fresh, nil
	}
}

// SetConfig persists the config verbatim. The caller guarantees floor and
// feature label uniqueness (see audit.ValidateFloorLabel and friends).
func (s *Store) SetConfig(ctx context.Context, cfg audit.Config) error {
	payload, err := marshalRecord(cfg)
	if err != nil {
		return storageErr("set config", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config (id, payload) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, payload)
	if err != nil {
		return storageErr("set config", err)
	}
	return nil
}

// ResetConfig persists and returns the compiled-in default configuration.
func (s *Store) ResetConfig(ctx context.Context) (audit.Config, error) {
	fresh := audit.DefaultConfig()
	if err := s.SetConfig(ctx, fresh); err != nil {
		return audit.Config{}, err
	}
	return fresh, nil
}
