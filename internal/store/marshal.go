package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// Records are stored as JSON TEXT columns. Encoding goes through a
// json.Encoder with HTML escaping disabled so stored payloads read back
// byte-for-byte as written (labels like "Quiet/sensory-friendly space" stay
// legible in the database).

func marshalRecord(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	// Encoder adds a trailing newline, remove it.
	return string(bytes.TrimSpace(buf.Bytes())), nil
}

func unmarshalConfig(data string) (audit.Config, error) {
	var cfg audit.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return audit.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
