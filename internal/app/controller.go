package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truaccess/fieldaudit/internal/audit"
	"github.com/truaccess/fieldaudit/internal/export"
	"github.com/truaccess/fieldaudit/internal/store"
)

// Undo window bounds. A plain toast uses the base window; the
// save-confirmation toast stays actionable longer.
const (
	UndoWindow     = 3 * time.Second
	SaveUndoWindow = 10 * time.Second
)

// ErrUndoExpired reports an undo attempt after the window closed. The saved
// record is untouched and becomes exportable-only.
var ErrUndoExpired = errors.New("undo window expired")

// Controller is the effect layer of the state machine. It performs the
// awaited store calls around the pure Reduce transitions and owns the undo
// window. Single logical writer: the controller is driven from one
// foreground flow and is not safe for concurrent use.
type Controller struct {
	store *store.Store
	clock Clock
	log   *slog.Logger
	newID func() string

	state AppState
	undo  *undoHandle
}

type undoHandle struct {
	auditID   string
	expiresAt time.Time
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClock overrides the wall clock (used by undo-window tests).
func WithClock(clock Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

// WithControllerLogger sets the logger. Defaults to slog.Default().
func WithControllerLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// WithIDGenerator overrides audit id generation (used by golden tests).
func WithIDGenerator(newID func() string) ControllerOption {
	return func(c *Controller) { c.newID = newID }
}

// NewController creates a controller over an opened store.
func NewController(st *store.Store, opts ...ControllerOption) *Controller {
	c := &Controller{
		store: st,
		clock: SystemClock{},
		log:   slog.Default(),
		newID: uuid.NewString,
		state: NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state record.
func (c *Controller) State() AppState {
	return c.state
}

// Dispatch applies a pure transition.
func (c *Controller) Dispatch(a Action) {
	c.state = Reduce(c.state, a)
}

// Init loads persisted config, audits, and the CSV snapshot, and seeds the
// state with an empty grid over the effective floors.
func (c *Controller) Init(ctx context.Context) error {
	cfg, err := c.store.GetConfig(ctx)
	if err != nil {
		return err
	}
	audits, err := c.store.ListAudits(ctx)
	if err != nil {
		return err
	}
	snapshot, err := c.store.CSVSnapshot(ctx)
	if err != nil {
		return err
	}
	c.Dispatch(InitAction{
		Config:      cfg,
		Matrix:      audit.NewEmptyMatrix(cfg.Features, audit.EffectiveFloors(cfg)),
		Audits:      audits,
		CSVSnapshot: snapshot,
	})
	return nil
}

// SetField edits a form field.
func (c *Controller) SetField(field Field, value string) {
	c.Dispatch(SetFieldAction{Field: field, Value: value})
}

// ToggleCell flips presence at one cell.
func (c *Controller) ToggleCell(feature, floor string) {
	c.Dispatch(ToggleCellAction{Feature: feature, Floor: floor})
}

// UpdateCell applies a partial cell update.
func (c *Controller) UpdateCell(feature, floor string, update CellUpdate) {
	c.Dispatch(UpdateCellAction{Feature: feature, Floor: floor, Update: update})
}

// SetOnline records connectivity.
func (c *Controller) SetOnline(online bool) {
	c.Dispatch(SetOnlineAction{Online: online})
}

// Save validates the form and persists a brand-new audit snapshot: the live
// matrix is value-copied, so further edits cannot touch the saved record.
// On success the form resets and a save-confirmation toast opens the undo
// window.
func (c *Controller) Save(ctx context.Context) (audit.BuildingAudit, error) {
	if err := audit.ValidateBuildingName(c.state.BuildingName); err != nil {
		c.Dispatch(SetErrorsAction{Errors: FieldErrors{BuildingName: "Building name is required."}})
		return audit.BuildingAudit{}, err
	}

	now := c.clock.Now().UTC().Format(time.RFC3339)
	floors := audit.EffectiveFloors(c.state.Config)
	a := audit.BuildingAudit{
		ID:           c.newID(),
		BuildingName: strings.TrimSpace(c.state.BuildingName),
		Address:      strings.TrimSpace(c.state.Address),
		Floors:       floors,
		Features:     append([]string(nil), c.state.Config.Features...),
		Matrix:       c.state.Matrix.Clone(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.store.AddAudit(ctx, a); err != nil {
		return audit.BuildingAudit{}, err
	}
	if err := c.refreshAudits(ctx); err != nil {
		return audit.BuildingAudit{}, err
	}

	c.Dispatch(ResetFormAction{
		Matrix: audit.NewEmptyMatrix(c.state.Config.Features, floors),
	})
	c.Dispatch(ShowToastAction{Message: "Saved", UndoID: a.ID})
	c.undo = &undoHandle{
		auditID:   a.ID,
		expiresAt: c.clock.Now().Add(SaveUndoWindow),
	}
	c.log.Info("audit saved", "audit_id", a.ID, "building", a.BuildingName)
	return a, nil
}

// UndoAvailable reports whether an undo handle is still open.
func (c *Controller) UndoAvailable() bool {
	return c.undo != nil && !c.clock.Now().After(c.undo.expiresAt)
}

// Undo reverts the last save while the window is open: the audit record and
// every photo referenced only by it are deleted in one logical operation.
// Photo ids also referenced by other stored audits are retained. After the
// window the handle is discarded and ErrUndoExpired is returned.
func (c *Controller) Undo(ctx context.Context) error {
	if c.undo == nil {
		return nil
	}
	if c.clock.Now().After(c.undo.expiresAt) {
		c.log.Debug("undo window expired", "audit_id", c.undo.auditID)
		c.undo = nil
		c.Dispatch(HideToastAction{})
		return ErrUndoExpired
	}

	if err := c.deleteAuditAndOrphans(ctx, c.undo.auditID); err != nil {
		return err
	}
	c.undo = nil
	c.Dispatch(HideToastAction{})
	return nil
}

// DeleteAudit removes a stored audit outside the undo flow, together with
// every photo blob referenced only by it. The store does not cascade-delete
// photos, so the caller-side orphan walk lives here.
func (c *Controller) DeleteAudit(ctx context.Context, id string) error {
	return c.deleteAuditAndOrphans(ctx, id)
}

func (c *Controller) deleteAuditAndOrphans(ctx context.Context, auditID string) error {
	var target *audit.BuildingAudit
	retained := make(map[string]struct{})
	for i := range c.state.Audits {
		a := &c.state.Audits[i]
		if a.ID == auditID {
			target = a
			continue
		}
		for _, id := range a.PhotoIDs() {
			retained[id] = struct{}{}
		}
	}

	if target != nil {
		for _, id := range target.PhotoIDs() {
			if _, ok := retained[id]; ok {
				continue
			}
			if err := c.store.DeletePhoto(ctx, id); err != nil {
				return err
			}
		}
	}

	if err := c.store.DeleteAudit(ctx, auditID); err != nil {
		return err
	}
	return c.refreshAudits(ctx)
}

// refreshAudits reloads the collection, recomputes the CSV snapshot cache,
// and persists it.
func (c *Controller) refreshAudits(ctx context.Context) error {
	audits, err := c.store.ListAudits(ctx)
	if err != nil {
		return err
	}
	snapshot := export.SerializeCSV(audits)
	if err := c.store.SetCSVSnapshot(ctx, snapshot); err != nil {
		return err
	}
	c.Dispatch(SetAuditsAction{Audits: audits})
	c.Dispatch(SetCSVAction{Snapshot: snapshot})
	return nil
}

// ExportCSV delivers the CSV snapshot through the sink chain, reusing the
// cached snapshot when present and recomputing (and caching) it otherwise.
func (c *Controller) ExportCSV(ctx context.Context, sinks ...export.Deliverer) error {
	if c.state.SavedCount == 0 {
		c.Dispatch(ShowToastAction{Message: "No saved entries to export."})
		return nil
	}

	snapshot, err := c.ensureSnapshot(ctx)
	if err != nil {
		return err
	}
	filename := export.CSVFilename(c.clock.Now())
	if err := export.Deliver(ctx, filename, "text/csv;charset=utf-8", []byte(snapshot), sinks...); err != nil {
		c.Dispatch(ShowToastAction{Message: "Export failed. Try download."})
		return err
	}
	c.Dispatch(ShowToastAction{Message: "Exported CSV"})
	return nil
}

// ExportArchive bundles the CSV snapshot and every referenced photo into a
// zip archive and delivers it through the sink chain.
func (c *Controller) ExportArchive(ctx context.Context, sinks ...export.Deliverer) error {
	if c.state.SavedCount == 0 {
		c.Dispatch(ShowToastAction{Message: "No saved entries to export."})
		return nil
	}

	snapshot, err := c.ensureSnapshot(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.BuildArchive(ctx, &buf, c.state.Audits, snapshot, c.store); err != nil {
		c.Dispatch(ShowToastAction{Message: "Export failed. Try download."})
		return err
	}
	filename := export.ArchiveFilename(c.clock.Now())
	if err := export.Deliver(ctx, filename, "application/zip", buf.Bytes(), sinks...); err != nil {
		c.Dispatch(ShowToastAction{Message: "Export failed. Try download."})
		return err
	}
	c.Dispatch(ShowToastAction{Message: "Exported archive"})
	return nil
}

func (c *Controller) ensureSnapshot(ctx context.Context) (string, error) {
	if c.state.CSVSnapshot != "" {
		return c.state.CSVSnapshot, nil
	}
	snapshot := export.SerializeCSV(c.state.Audits)
	if err := c.store.SetCSVSnapshot(ctx, snapshot); err != nil {
		return "", err
	}
	c.Dispatch(SetCSVAction{Snapshot: snapshot})
	return snapshot, nil
}

// AttachPhoto stores a photo blob and appends its id to the cell's
// references.
func (c *Controller) AttachPhoto(ctx context.Context, feature, floor string, asset audit.PhotoAsset) error {
	if err := c.store.AddPhoto(ctx, asset); err != nil {
		return err
	}
	cell := c.state.Matrix.Cell(feature, floor)
	ids := append(append([]string(nil), cell.PhotoIDs...), asset.ID)
	c.UpdateCell(feature, floor, CellUpdate{PhotoIDs: &ids})
	return nil
}

// RemovePhoto drops a photo reference from a cell and deletes the blob.
// The cell is the only referent of an in-progress photo, so the blob goes
// with the reference.
func (c *Controller) RemovePhoto(ctx context.Context, feature, floor, photoID string) error {
	cell := c.state.Matrix.Cell(feature, floor)
	ids := make([]string, 0, len(cell.PhotoIDs))
	for _, id := range cell.PhotoIDs {
		if id != photoID {
			ids = append(ids, id)
		}
	}
	c.UpdateCell(feature, floor, CellUpdate{PhotoIDs: &ids})
	return c.store.DeletePhoto(ctx, photoID)
}

// updateConfig persists a new config and reconciles the live matrix onto it
// so in-progress edits survive the reshape.
func (c *Controller) updateConfig(ctx context.Context, next audit.Config) error {
	if err := c.store.SetConfig(ctx, next); err != nil {
		return err
	}
	matrix := audit.Reconcile(c.state.Matrix, next.Features, audit.EffectiveFloors(next))
	c.Dispatch(SetConfigAction{Config: next, Matrix: matrix})
	return nil
}

// AddFloor validates and appends a floor label. Validation failures never
// touch the store.
func (c *Controller) AddFloor(ctx context.Context, label string) error {
	if err := audit.ValidateFloorLabel(label, c.state.Config.Floors); err != nil {
		return err
	}
	next := c.state.Config.Clone()
	next.Floors = append(next.Floors, strings.TrimSpace(label))
	return c.updateConfig(ctx, next)
}

// RemoveFloor removes a floor label; in-progress cells for it are dropped by
// reconciliation.
func (c *Controller) RemoveFloor(ctx context.Context, label string) error {
	next := c.state.Config.Clone()
	next.Floors = removeLabel(next.Floors, label)
	return c.updateConfig(ctx, next)
}

// AddFeature validates and appends a feature label.
func (c *Controller) AddFeature(ctx context.Context, label string) error {
	if err := audit.ValidateFeatureLabel(label, c.state.Config.Features); err != nil {
		return err
	}
	next := c.state.Config.Clone()
	next.Features = append(next.Features, strings.TrimSpace(label))
	return c.updateConfig(ctx, next)
}

// RemoveFeature removes a feature label.
func (c *Controller) RemoveFeature(ctx context.Context, label string) error {
	next := c.state.Config.Clone()
	next.Features = removeLabel(next.Features, label)
	return c.updateConfig(ctx, next)
}

// ResetFeatures restores the compiled-in default feature list, keeping the
// configured floors.
func (c *Controller) ResetFeatures(ctx context.Context) error {
	next := c.state.Config.Clone()
	next.Features = audit.DefaultFeatures()
	return c.updateConfig(ctx, next)
}

// AddRecommended appends the "recommended extras" pack, skipping features
// already configured. Returns how many were added.
func (c *Controller) AddRecommended(ctx context.Context) (int, error) {
	return c.addPack(ctx, audit.RecommendedExtras(), "All recommended features already added.")
}

// AddCampusExtras appends the "campus audit extras" pack, skipping features
// already configured. Returns how many were added.
func (c *Controller) AddCampusExtras(ctx context.Context) (int, error) {
	return c.addPack(ctx, audit.CampusExtras(), "Campus extras already added.")
}

func (c *Controller) addPack(ctx context.Context, pack []string, noneMessage string) (int, error) {
	existing := make(map[string]struct{}, len(c.state.Config.Features))
	for _, f := range c.state.Config.Features {
		existing[f] = struct{}{}
	}
	var additions []string
	for _, f := range pack {
		if _, ok := existing[f]; !ok {
			additions = append(additions, f)
		}
	}
	if len(additions) == 0 {
		c.Dispatch(ShowToastAction{Message: noneMessage})
		return 0, nil
	}
	next := c.state.Config.Clone()
	next.Features = append(next.Features, additions...)
	if err := c.updateConfig(ctx, next); err != nil {
		return 0, err
	}
	return len(additions), nil
}

// ResetConfig restores the compiled-in defaults and rebuilds an empty grid.
func (c *Controller) ResetConfig(ctx context.Context) error {
	fresh, err := c.store.ResetConfig(ctx)
	if err != nil {
		return err
	}
	c.Dispatch(SetConfigAction{
		Config: fresh,
		Matrix: audit.NewEmptyMatrix(fresh.Features, audit.EffectiveFloors(fresh)),
	})
	return nil
}

// ClearAll removes every audit, the snapshot cache, and every photo blob.
func (c *Controller) ClearAll(ctx context.Context) error {
	if err := c.store.ClearAudits(ctx); err != nil {
		return err
	}
	if err := c.store.ClearCSVSnapshot(ctx); err != nil {
		return err
	}
	if err := c.store.ClearPhotos(ctx); err != nil {
		return err
	}
	c.Dispatch(SetAuditsAction{Audits: []audit.BuildingAudit{}})
	c.Dispatch(SetCSVAction{Snapshot: ""})
	return nil
}

func removeLabel(labels []string, label string) []string {
	out := labels[:0]
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}
	return out
}
