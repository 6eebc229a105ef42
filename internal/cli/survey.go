package cli

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/truaccess/fieldaudit/internal/app"
	"github.com/truaccess/fieldaudit/internal/audit"
)

// Survey is the on-disk form a field worker fills out before running
// "audit save". Cells not listed stay absent in the saved matrix.
type Survey struct {
	BuildingName string       `yaml:"building_name"`
	Address      string       `yaml:"address"`
	Cells        []SurveyCell `yaml:"cells"`
}

type SurveyCell struct {
	Feature string     `yaml:"feature"`
	Floor   string     `yaml:"floor"`
	Present *bool      `yaml:"present"`
	Notes   string     `yaml:"notes"`
	Photos  []string   `yaml:"photos"`
	Geo     *SurveyGeo `yaml:"geo"`
}

type SurveyGeo struct {
	Lat        float64  `yaml:"lat"`
	Lon        float64  `yaml:"lon"`
	Accuracy   *float64 `yaml:"accuracy"`
	CapturedAt string   `yaml:"captured_at"`
}

func loadSurvey(path string) (*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Survey
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

// applySurvey walks the survey through the same transitions the form UI
// would issue, then saves. Photos are read relative to the working
// directory and stored before the cell referencing them is updated.
func applySurvey(ctx context.Context, ctrl *app.Controller, s *Survey) (audit.BuildingAudit, error) {
	ctrl.SetField(app.FieldBuildingName, s.BuildingName)
	ctrl.SetField(app.FieldAddress, s.Address)

	floors := audit.EffectiveFloors(ctrl.State().Config)
	for i, cell := range s.Cells {
		if cell.Feature == "" || cell.Floor == "" {
			return audit.BuildingAudit{}, fmt.Errorf("cell %d: feature and floor are required", i+1)
		}
		if !containsLabel(ctrl.State().Config.Features, cell.Feature) {
			return audit.BuildingAudit{}, fmt.Errorf("cell %d: unknown feature %q (add it with 'config add-feature' first)", i+1, cell.Feature)
		}
		if !containsLabel(floors, cell.Floor) {
			return audit.BuildingAudit{}, fmt.Errorf("cell %d: unknown floor %q", i+1, cell.Floor)
		}

		update := app.CellUpdate{Present: cell.Present}
		if cell.Notes != "" {
			notes := cell.Notes
			update.Notes = &notes
		}
		if cell.Geo != nil {
			update.Geo = &audit.Geo{
				Lat:        cell.Geo.Lat,
				Lon:        cell.Geo.Lon,
				Accuracy:   cell.Geo.Accuracy,
				CapturedAt: cell.Geo.CapturedAt,
			}
		}
		ctrl.UpdateCell(cell.Feature, cell.Floor, update)

		for _, path := range cell.Photos {
			asset, err := loadPhotoAsset(path)
			if err != nil {
				return audit.BuildingAudit{}, fmt.Errorf("cell %d: %w", i+1, err)
			}
			if err := ctrl.AttachPhoto(ctx, cell.Feature, cell.Floor, asset); err != nil {
				return audit.BuildingAudit{}, err
			}
		}
	}

	return ctrl.Save(ctx)
}

func loadPhotoAsset(path string) (audit.PhotoAsset, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return audit.PhotoAsset{}, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return audit.PhotoAsset{
		ID:        uuid.NewString(),
		Blob:      blob,
		MimeType:  mimeType,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Size:      int64(len(blob)),
		Filename:  filepath.Base(path),
	}, nil
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
