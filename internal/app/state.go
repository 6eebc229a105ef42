package app

import (
	"github.com/truaccess/fieldaudit/internal/audit"
)

// Field identifies an editable form field.
type Field string

const (
	FieldBuildingName Field = "buildingName"
	FieldAddress      Field = "address"
)

// ToastState is the transient notification shown after an operation. When
// UndoID is set, the toast offers to undo the save of that audit.
type ToastState struct {
	Message string
	UndoID  string
	Visible bool
}

// FieldErrors holds per-field validation messages.
type FieldErrors struct {
	BuildingName string
}

// AppState is the single immutable state record the UI renders from.
// It is only ever replaced wholesale by Reduce, never mutated in place.
type AppState struct {
	BuildingName string
	Address      string
	Config       audit.Config
	Matrix       audit.Matrix
	Audits       []audit.BuildingAudit
	SavedCount   int
	Errors       FieldErrors
	Toast        ToastState
	Online       bool
	FocusKey     int
	CSVSnapshot  string
}

// NewState returns the pre-Init state: default config, empty grid over the
// effective floors, nothing saved.
func NewState() AppState {
	cfg := audit.DefaultConfig()
	return AppState{
		Config: cfg,
		Matrix: audit.NewEmptyMatrix(cfg.Features, audit.EffectiveFloors(cfg)),
		Online: true,
	}
}

// CellUpdate is a partial update applied to one matrix cell. Nil fields
// leave the corresponding cell field unchanged.
type CellUpdate struct {
	Present  *bool
	Notes    *string   // empty string clears the note
	PhotoIDs *[]string // pointer to an empty slice clears the references
	Geo      *audit.Geo
	ClearGeo bool
}

// Action is the closed set of state transitions. Each variant carries the
// full payload Reduce needs; effects (store calls) happen in the Controller
// before the action is dispatched.
type Action interface {
	isAction()
}

// InitAction seeds the state from persisted data.
type InitAction struct {
	Config      audit.Config
	Matrix      audit.Matrix
	Audits      []audit.BuildingAudit
	CSVSnapshot string
}

// SetFieldAction edits a form field; editing the building name clears its
// validation error.
type SetFieldAction struct {
	Field Field
	Value string
}

// SetConfigAction installs a new config together with the matrix already
// reconciled onto it.
type SetConfigAction struct {
	Config audit.Config
	Matrix audit.Matrix
}

// SetMatrixAction replaces the live matrix.
type SetMatrixAction struct {
	Matrix audit.Matrix
}

// ToggleCellAction flips presence at one (feature, floor) key.
type ToggleCellAction struct {
	Feature string
	Floor   string
}

// UpdateCellAction applies a partial update at one (feature, floor) key.
type UpdateCellAction struct {
	Feature string
	Floor   string
	Update  CellUpdate
}

// SetAuditsAction replaces the audit collection view.
type SetAuditsAction struct {
	Audits []audit.BuildingAudit
}

// ResetFormAction clears the form after a save, installing a fresh matrix.
type ResetFormAction struct {
	Matrix audit.Matrix
}

// SetErrorsAction replaces the field validation errors.
type SetErrorsAction struct {
	Errors FieldErrors
}

// ShowToastAction shows a toast, optionally with an undo handle.
type ShowToastAction struct {
	Message string
	UndoID  string
}

// HideToastAction dismisses the toast.
type HideToastAction struct{}

// SetOnlineAction records connectivity for the UI banner.
type SetOnlineAction struct {
	Online bool
}

// SetCSVAction replaces the cached CSV snapshot view.
type SetCSVAction struct {
	Snapshot string
}

// IncrementFocusAction bumps the focus counter so the UI refocuses the form.
type IncrementFocusAction struct{}

func (InitAction) isAction()           {}
func (SetFieldAction) isAction()       {}
func (SetConfigAction) isAction()      {}
func (SetMatrixAction) isAction()      {}
func (ToggleCellAction) isAction()     {}
func (UpdateCellAction) isAction()     {}
func (SetAuditsAction) isAction()      {}
func (ResetFormAction) isAction()      {}
func (SetErrorsAction) isAction()      {}
func (ShowToastAction) isAction()      {}
func (HideToastAction) isAction()      {}
func (SetOnlineAction) isAction()      {}
func (SetCSVAction) isAction()         {}
func (IncrementFocusAction) isAction() {}
