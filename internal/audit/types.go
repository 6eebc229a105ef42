package audit

// Config is the live floor/feature configuration. Order is significant (it
// defines display order) but labels are logically a set: no duplicates.
// The Version field tracks the config record schema, not the SQLite schema;
// see store.ConfigStore for migration behavior.
type Config struct {
	Floors   []string `json:"floors"`
	Features []string `json:"features"`
	Version  int      `json:"version"`
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := Config{
		Floors:   make([]string, len(c.Floors)),
		Features: make([]string, len(c.Features)),
		Version:  c.Version,
	}
	copy(out.Floors, c.Floors)
	copy(out.Features, c.Features)
	return out
}

// Geo is a geolocation fix captured for a single cell.
type Geo struct {
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	CapturedAt string   `json:"capturedAt"`
}

// MatrixCell is one entry of the Feature×Floor grid.
//
// Invariant: Notes and PhotoIDs are never stored empty. An empty string or
// empty slice is represented as absence (zero value / nil); normalization
// repairs records that violate this.
type MatrixCell struct {
	Present  bool     `json:"present"`
	Notes    string   `json:"notes,omitempty"`
	PhotoIDs []string `json:"photoIds,omitempty"`
	Geo      *Geo     `json:"geo,omitempty"`
}

// Clone returns a deep copy of the cell.
func (c MatrixCell) Clone() MatrixCell {
	out := c
	if c.PhotoIDs != nil {
		out.PhotoIDs = make([]string, len(c.PhotoIDs))
		copy(out.PhotoIDs, c.PhotoIDs)
	}
	if c.Geo != nil {
		g := *c.Geo
		if c.Geo.Accuracy != nil {
			a := *c.Geo.Accuracy
			g.Accuracy = &a
		}
		out.Geo = &g
	}
	return out
}

// Matrix maps feature label → floor label → cell. It is rebuilt from the
// active config on every config change and never persisted directly; a saved
// audit embeds a value copy.
type Matrix map[string]map[string]MatrixCell

// Cell returns the cell at (feature, floor), or a default absent cell when
// the key does not exist.
func (m Matrix) Cell(feature, floor string) MatrixCell {
	if row, ok := m[feature]; ok {
		if cell, ok := row[floor]; ok {
			return cell
		}
	}
	return MatrixCell{}
}

// SetCell replaces the cell at (feature, floor), creating the row if needed.
func (m Matrix) SetCell(feature, floor string, cell MatrixCell) {
	row, ok := m[feature]
	if !ok {
		row = make(map[string]MatrixCell)
		m[feature] = row
	}
	row[floor] = cell
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for feature, row := range m {
		next := make(map[string]MatrixCell, len(row))
		for floor, cell := range row {
			next[floor] = cell.Clone()
		}
		out[feature] = next
	}
	return out
}

// PhotoAsset is a stored photo blob. Assets are owned independently of any
// single audit and referenced by id from one or more cells; the store does
// not reference-count them.
type PhotoAsset struct {
	ID        string `json:"id"`
	Blob      []byte `json:"-"`
	MimeType  string `json:"mimeType"`
	CreatedAt string `json:"createdAt"`
	Size      int64  `json:"size"`
	Filename  string `json:"filename,omitempty"`
}

// BuildingAudit is one completed survey: a frozen snapshot of the grid plus
// metadata. Immutable once saved except for normalization rewrites; each save
// produces a brand-new record, never a merge into an old one.
type BuildingAudit struct {
	ID           string   `json:"id"`
	BuildingName string   `json:"buildingName"`
	Address      string   `json:"address,omitempty"`
	Floors       []string `json:"floors"`
	Features     []string `json:"features"`
	Matrix       Matrix   `json:"matrix"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// PhotoIDs returns the unique photo ids referenced anywhere in the audit's
// grid, in first-encounter order (feature-major, floor-minor). Callers use
// this to delete orphaned blobs when discarding an audit.
func (a BuildingAudit) PhotoIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, feature := range a.Features {
		row := a.Matrix[feature]
		for _, floor := range a.Floors {
			cell, ok := row[floor]
			if !ok {
				continue
			}
			for _, id := range cell.PhotoIDs {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}
