package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/truaccess/fieldaudit/internal/audit"
)

func TestReduce_InitSeedsEverything(t *testing.T) {
	cfg := audit.Config{Floors: []string{"1"}, Features: []string{"Ramp available"}, Version: audit.ConfigVersion}
	audits := []audit.BuildingAudit{{ID: "a1"}, {ID: "a2"}}

	next := Reduce(NewState(), InitAction{
		Config:      cfg,
		Matrix:      audit.NewEmptyMatrix(cfg.Features, audit.EffectiveFloors(cfg)),
		Audits:      audits,
		CSVSnapshot: "cached",
	})

	assert.Equal(t, cfg, next.Config)
	assert.Equal(t, 2, next.SavedCount)
	assert.Equal(t, "cached", next.CSVSnapshot)
}

func TestReduce_SetFieldClearsNameError(t *testing.T) {
	state := NewState()
	state.Errors.BuildingName = "Building name is required."

	next := Reduce(state, SetFieldAction{Field: FieldBuildingName, Value: "Library"})
	assert.Equal(t, "Library", next.BuildingName)
	assert.Empty(t, next.Errors.BuildingName)

	// Editing the address leaves the name error in place.
	next = Reduce(state, SetFieldAction{Field: FieldAddress, Value: "100 Campus Way"})
	assert.Equal(t, "100 Campus Way", next.Address)
	assert.Equal(t, "Building name is required.", next.Errors.BuildingName)
}

func TestReduce_ToggleCell(t *testing.T) {
	state := NewState()
	feature := state.Config.Features[0]

	next := Reduce(state, ToggleCellAction{Feature: feature, Floor: audit.SiteLabel})
	assert.True(t, next.Matrix.Cell(feature, audit.SiteLabel).Present)

	next = Reduce(next, ToggleCellAction{Feature: feature, Floor: audit.SiteLabel})
	assert.False(t, next.Matrix.Cell(feature, audit.SiteLabel).Present)
}

func TestReduce_ToggleCellDoesNotMutateInput(t *testing.T) {
	state := NewState()
	feature := state.Config.Features[0]

	_ = Reduce(state, ToggleCellAction{Feature: feature, Floor: audit.SiteLabel})
	assert.False(t, state.Matrix.Cell(feature, audit.SiteLabel).Present,
		"input state mutated by Reduce")
}

func TestReduce_UpdateCellPartial(t *testing.T) {
	state := NewState()
	feature := state.Config.Features[0]
	present := true
	notes := "narrow doorway"

	next := Reduce(state, UpdateCellAction{
		Feature: feature,
		Floor:   "1",
		Update:  CellUpdate{Present: &present, Notes: &notes},
	})
	cell := next.Matrix.Cell(feature, "1")
	assert.True(t, cell.Present)
	assert.Equal(t, "narrow doorway", cell.Notes)

	// A later partial update leaves unmentioned fields alone.
	empty := ""
	next = Reduce(next, UpdateCellAction{
		Feature: feature,
		Floor:   "1",
		Update:  CellUpdate{Notes: &empty},
	})
	cell = next.Matrix.Cell(feature, "1")
	assert.True(t, cell.Present)
	assert.Empty(t, cell.Notes)
}

func TestReduce_UpdateCellClearsPhotoListToNil(t *testing.T) {
	state := NewState()
	feature := state.Config.Features[0]

	ids := []string{"p1"}
	next := Reduce(state, UpdateCellAction{
		Feature: feature, Floor: "1",
		Update: CellUpdate{PhotoIDs: &ids},
	})
	assert.Equal(t, []string{"p1"}, next.Matrix.Cell(feature, "1").PhotoIDs)

	none := []string{}
	next = Reduce(next, UpdateCellAction{
		Feature: feature, Floor: "1",
		Update: CellUpdate{PhotoIDs: &none},
	})
	assert.Nil(t, next.Matrix.Cell(feature, "1").PhotoIDs)
}

func TestReduce_UpdateCellGeo(t *testing.T) {
	state := NewState()
	feature := state.Config.Features[0]

	geo := &audit.Geo{Lat: 50.67, Lon: -120.34, CapturedAt: "2025-06-01T12:00:00Z"}
	next := Reduce(state, UpdateCellAction{
		Feature: feature, Floor: audit.SiteLabel,
		Update: CellUpdate{Geo: geo},
	})
	got := next.Matrix.Cell(feature, audit.SiteLabel).Geo
	assert.NotNil(t, got)
	assert.NotSame(t, geo, got, "reducer must copy the geo value")

	next = Reduce(next, UpdateCellAction{
		Feature: feature, Floor: audit.SiteLabel,
		Update: CellUpdate{ClearGeo: true},
	})
	assert.Nil(t, next.Matrix.Cell(feature, audit.SiteLabel).Geo)
}

func TestReduce_ResetForm(t *testing.T) {
	state := NewState()
	state.BuildingName = "Library"
	state.Address = "1 Way"
	state.Errors.BuildingName = "stale"
	focus := state.FocusKey

	fresh := audit.NewEmptyMatrix(state.Config.Features, audit.EffectiveFloors(state.Config))
	next := Reduce(state, ResetFormAction{Matrix: fresh})

	assert.Empty(t, next.BuildingName)
	assert.Empty(t, next.Address)
	assert.Equal(t, FieldErrors{}, next.Errors)
	assert.Equal(t, focus+1, next.FocusKey)
}

func TestReduce_ToastLifecycle(t *testing.T) {
	next := Reduce(NewState(), ShowToastAction{Message: "Saved", UndoID: "a1"})
	assert.True(t, next.Toast.Visible)
	assert.Equal(t, "Saved", next.Toast.Message)
	assert.Equal(t, "a1", next.Toast.UndoID)

	next = Reduce(next, HideToastAction{})
	assert.Equal(t, ToastState{}, next.Toast)
}

func TestReduce_SetAuditsTracksSavedCount(t *testing.T) {
	next := Reduce(NewState(), SetAuditsAction{Audits: []audit.BuildingAudit{{ID: "a1"}}})
	assert.Equal(t, 1, next.SavedCount)

	next = Reduce(next, SetAuditsAction{Audits: []audit.BuildingAudit{}})
	assert.Equal(t, 0, next.SavedCount)
}
