package audit

// EffectiveFloors returns the floor list an audit actually covers: the
// reserved SITE pseudo-floor followed by the configured floors. Every read
// site derives this view instead of prepending SITE inline.
func EffectiveFloors(c Config) []string {
	out := make([]string, 0, len(c.Floors)+1)
	out = append(out, SiteLabel)
	out = append(out, c.Floors...)
	return out
}

// NewEmptyMatrix builds a matrix with a default absent cell for every
// (feature, floor) pair.
func NewEmptyMatrix(features, floors []string) Matrix {
	m := make(Matrix, len(features))
	for _, feature := range features {
		row := make(map[string]MatrixCell, len(floors))
		for _, floor := range floors {
			row[floor] = MatrixCell{}
		}
		m[feature] = row
	}
	return m
}

// Reconcile reshapes an existing matrix onto new feature/floor sets.
//
// For every (feature, floor) pair in the new sets the existing cell is copied
// when one exists at that exact key, else the cell defaults to absent. Cells
// whose feature or floor was removed are dropped, not retained as orphans.
// This runs whenever the config changes so in-progress edits survive grid
// reshaping.
func Reconcile(existing Matrix, features, floors []string) Matrix {
	next := make(Matrix, len(features))
	for _, feature := range features {
		existingRow := existing[feature]
		row := make(map[string]MatrixCell, len(floors))
		for _, floor := range floors {
			if cell, ok := existingRow[floor]; ok {
				row[floor] = cell.Clone()
			} else {
				row[floor] = MatrixCell{}
			}
		}
		next[feature] = row
	}
	return next
}
