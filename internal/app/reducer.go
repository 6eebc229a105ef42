package app

import (
	"github.com/truaccess/fieldaudit/internal/audit"
)

// Reduce is the pure transition function: given a state and an action it
// returns the next state. It never performs I/O and never mutates its
// inputs; matrix-editing transitions clone the affected rows.
func Reduce(state AppState, action Action) AppState {
	switch a := action.(type) {
	case InitAction:
		state.Config = a.Config
		state.Matrix = a.Matrix
		state.Audits = a.Audits
		state.SavedCount = len(a.Audits)
		state.CSVSnapshot = a.CSVSnapshot
		return state

	case SetFieldAction:
		switch a.Field {
		case FieldBuildingName:
			state.BuildingName = a.Value
			state.Errors.BuildingName = ""
		case FieldAddress:
			state.Address = a.Value
		}
		return state

	case SetConfigAction:
		state.Config = a.Config
		state.Matrix = a.Matrix
		return state

	case SetMatrixAction:
		state.Matrix = a.Matrix
		return state

	case ToggleCellAction:
		cell := state.Matrix.Cell(a.Feature, a.Floor)
		cell.Present = !cell.Present
		state.Matrix = withCell(state.Matrix, a.Feature, a.Floor, cell)
		return state

	case UpdateCellAction:
		cell := applyCellUpdate(state.Matrix.Cell(a.Feature, a.Floor), a.Update)
		state.Matrix = withCell(state.Matrix, a.Feature, a.Floor, cell)
		return state

	case SetAuditsAction:
		state.Audits = a.Audits
		state.SavedCount = len(a.Audits)
		return state

	case ResetFormAction:
		state.BuildingName = ""
		state.Address = ""
		state.Matrix = a.Matrix
		state.Errors = FieldErrors{}
		state.FocusKey++
		return state

	case SetErrorsAction:
		state.Errors = a.Errors
		return state

	case ShowToastAction:
		state.Toast = ToastState{Message: a.Message, UndoID: a.UndoID, Visible: true}
		return state

	case HideToastAction:
		state.Toast = ToastState{}
		return state

	case SetOnlineAction:
		state.Online = a.Online
		return state

	case SetCSVAction:
		state.CSVSnapshot = a.Snapshot
		return state

	case IncrementFocusAction:
		state.FocusKey++
		return state

	default:
		return state
	}
}

// withCell returns a copy of the matrix with one cell replaced. Only the
// affected row is rebuilt; other rows are shared.
func withCell(m audit.Matrix, feature, floor string, cell audit.MatrixCell) audit.Matrix {
	next := make(audit.Matrix, len(m))
	for f, row := range m {
		next[f] = row
	}
	row := make(map[string]audit.MatrixCell, len(m[feature])+1)
	for fl, c := range m[feature] {
		row[fl] = c
	}
	row[floor] = cell
	next[feature] = row
	return next
}

// applyCellUpdate merges a partial update into a cell, normalizing empty
// notes and photo lists to absence.
func applyCellUpdate(cell audit.MatrixCell, u CellUpdate) audit.MatrixCell {
	if u.Present != nil {
		cell.Present = *u.Present
	}
	if u.Notes != nil {
		cell.Notes = *u.Notes
	}
	if u.PhotoIDs != nil {
		ids := *u.PhotoIDs
		if len(ids) == 0 {
			cell.PhotoIDs = nil
		} else {
			cell.PhotoIDs = append([]string(nil), ids...)
		}
	}
	if u.ClearGeo {
		cell.Geo = nil
	} else if u.Geo != nil {
		g := *u.Geo
		cell.Geo = &g
	}
	return cell
}
