package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Normalization is the read-time repair step at the storage boundary. Audits
// written by older app versions stored a bare boolean per cell; interrupted
// writes and external tampering can leave null cells or wrongly typed fields.
// DecodeAudit tolerates all of those shapes and reports whether the decoded
// record differs from what was stored, so the store can write the repaired
// record back.

// rawAudit mirrors BuildingAudit with the matrix cells left undecoded.
type rawAudit struct {
	ID           string                                `json:"id"`
	BuildingName string                                `json:"buildingName"`
	Address      string                                `json:"address,omitempty"`
	Floors       []string                              `json:"floors"`
	Features     []string                              `json:"features"`
	Matrix       map[string]map[string]json.RawMessage `json:"matrix"`
	CreatedAt    string                                `json:"createdAt"`
	UpdatedAt    string                                `json:"updatedAt"`
}

// DecodeAudit parses a stored audit payload, normalizing every cell to the
// canonical MatrixCell shape. changed reports whether any cell was repaired
// versus the raw record; callers persist the returned audit when it is true.
func DecodeAudit(data []byte) (a BuildingAudit, changed bool, err error) {
	var raw rawAudit
	if err := json.Unmarshal(data, &raw); err != nil {
		return BuildingAudit{}, false, fmt.Errorf("decode audit: %w", err)
	}

	matrix, changed := NormalizeMatrix(raw.Matrix, raw.Features, raw.Floors)
	a = BuildingAudit{
		ID:           raw.ID,
		BuildingName: raw.BuildingName,
		Address:      raw.Address,
		Floors:       raw.Floors,
		Features:     raw.Features,
		Matrix:       matrix,
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
	}
	return a, changed, nil
}

// NormalizeMatrix rebuilds the full feature×floor grid from raw cell
// payloads. Every (feature, floor) pair gets a canonical cell; cells outside
// the feature/floor sets are dropped.
func NormalizeMatrix(raw map[string]map[string]json.RawMessage, features, floors []string) (Matrix, bool) {
	next := make(Matrix, len(features))
	changed := false
	for _, feature := range features {
		rawRow := raw[feature]
		row := make(map[string]MatrixCell, len(floors))
		for _, floor := range floors {
			rawCell, ok := rawRow[floor]
			if !ok {
				// Missing cell: self-heal to an absent entry.
				row[floor] = MatrixCell{}
				changed = true
				continue
			}
			cell, repaired := normalizeCell(rawCell)
			if repaired {
				changed = true
			}
			row[floor] = cell
		}
		next[feature] = row
	}
	return next, changed
}

var (
	jsonTrue  = []byte("true")
	jsonFalse = []byte("false")
	jsonNull  = []byte("null")
)

// normalizeCell decodes one raw cell value via a tagged fallback chain:
// legacy bare boolean, null/non-object, then the canonical object shape with
// per-field coercion.
func normalizeCell(raw json.RawMessage) (MatrixCell, bool) {
	trimmed := bytes.TrimSpace(raw)

	// Legacy shape: the cell is a bare presence boolean.
	if bytes.Equal(trimmed, jsonTrue) {
		return MatrixCell{Present: true}, true
	}
	if bytes.Equal(trimmed, jsonFalse) {
		return MatrixCell{}, true
	}
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return MatrixCell{}, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		// Not an object at all (number, string, array): reset the cell.
		return MatrixCell{}, true
	}

	var cell MatrixCell
	changed := false

	if rawPresent, ok := obj["present"]; ok {
		var b bool
		if err := json.Unmarshal(rawPresent, &b); err == nil {
			cell.Present = b
		} else {
			cell.Present = truthy(rawPresent)
			changed = true
		}
	} else {
		changed = true
	}

	if rawNotes, ok := obj["notes"]; ok {
		var s string
		if err := json.Unmarshal(rawNotes, &s); err == nil && s != "" {
			cell.Notes = s
		} else {
			// Wrong type, or empty string: normalize to absence.
			changed = true
		}
	}

	if rawIDs, ok := obj["photoIds"]; ok {
		ids, repaired := normalizePhotoIDs(rawIDs)
		cell.PhotoIDs = ids
		if repaired {
			changed = true
		}
	}

	if rawGeo, ok := obj["geo"]; ok {
		geo, repaired := normalizeGeo(rawGeo)
		cell.Geo = geo
		if repaired {
			changed = true
		}
	}

	return cell, changed
}

// normalizePhotoIDs keeps only non-empty string entries. An empty result is
// normalized to absence.
func normalizePhotoIDs(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, true
	}
	ids := make([]string, 0, len(elems))
	for _, elem := range elems {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil && s != "" {
			ids = append(ids, s)
		}
	}
	if len(ids) == 0 {
		return nil, true
	}
	return ids, len(ids) != len(elems)
}

// normalizeGeo keeps a geo fix only when lat, lon, and capturedAt are all
// well-typed; a partial or mistyped fix is dropped rather than guessed at.
func normalizeGeo(raw json.RawMessage) (*Geo, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, true
	}

	var lat, lon float64
	var capturedAt string
	if err := json.Unmarshal(obj["lat"], &lat); err != nil {
		return nil, true
	}
	if err := json.Unmarshal(obj["lon"], &lon); err != nil {
		return nil, true
	}
	if err := json.Unmarshal(obj["capturedAt"], &capturedAt); err != nil || capturedAt == "" {
		return nil, true
	}

	geo := &Geo{Lat: lat, Lon: lon, CapturedAt: capturedAt}
	changed := false
	if rawAcc, ok := obj["accuracy"]; ok {
		var acc float64
		if err := json.Unmarshal(rawAcc, &acc); err == nil {
			geo.Accuracy = &acc
		} else {
			changed = true
		}
	}
	return geo, changed
}

// truthy applies loose boolean coercion to a mistyped present field during
// repair: non-zero numbers and non-empty strings count as present.
func truthy(raw json.RawMessage) bool {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	return false
}
