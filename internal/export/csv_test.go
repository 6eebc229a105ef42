package export

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// goldenAudits is the fixture behind the golden-file test: it covers quoting,
// photo counts, geo coordinates, and an audit with a different grid shape.
func goldenAudits() []audit.BuildingAudit {
	m1 := audit.NewEmptyMatrix(
		[]string{"Ramp available", "Elevator/lift"},
		[]string{"SITE", "1"},
	)
	m1.SetCell("Ramp available", "SITE", audit.MatrixCell{
		Present: true,
		Geo:     &audit.Geo{Lat: 50.67, Lon: -120.34, CapturedAt: "2025-06-01T12:00:00Z"},
	})
	m1.SetCell("Elevator/lift", "1", audit.MatrixCell{
		Present:  true,
		Notes:    `He said "hi", ok`,
		PhotoIDs: []string{"p1", "p2"},
	})

	m2 := audit.NewEmptyMatrix([]string{"Ramp available"}, []string{"SITE"})
	m2.SetCell("Ramp available", "SITE", audit.MatrixCell{Notes: " padded "})

	return []audit.BuildingAudit{
		{
			ID:           "a1",
			BuildingName: "Main Library",
			Address:      "123 University Dr",
			Floors:       []string{"SITE", "1"},
			Features:     []string{"Ramp available", "Elevator/lift"},
			Matrix:       m1,
			CreatedAt:    "2025-06-01T12:00:00Z",
			UpdatedAt:    "2025-06-01T12:00:00Z",
		},
		{
			ID:           "a2",
			BuildingName: "Annex",
			Floors:       []string{"SITE"},
			Features:     []string{"Ramp available"},
			Matrix:       m2,
			CreatedAt:    "2025-05-01T09:30:00Z",
			UpdatedAt:    "2025-05-01T09:30:00Z",
		},
	}
}

func TestSerializeCSV_Golden(t *testing.T) {
	csv := SerializeCSV(goldenAudits())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "audit_csv", []byte(csv))
}

func TestSerializeCSV_Deterministic(t *testing.T) {
	audits := goldenAudits()
	first := SerializeCSV(audits)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SerializeCSV(audits))
	}
}

func TestSerializeCSV_RowCount(t *testing.T) {
	audits := goldenAudits()
	csv := SerializeCSV(audits)

	lines := strings.Split(csv, "\n")
	// One header plus |features|×|floors| rows per audit: 2×2 + 1×1.
	require.Len(t, lines, 1+4+1)
	assert.False(t, strings.HasSuffix(csv, "\n"), "no trailing newline")
}

func TestSerializeCSV_EmptyIsHeaderOnly(t *testing.T) {
	csv := SerializeCSV(nil)
	assert.Equal(t, strings.Join(csvHeader, ","), csv)
}

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"with,comma", `"with,comma"`},
		{`He said "hi", ok`, `"He said ""hi"", ok"`},
		{"line\nbreak", "\"line\nbreak\""},
		{" leading", `" leading"`},
		{"trailing ", `"trailing "`},
		{"inner space ok中", "inner space ok中"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeCSV(tt.in), "input %q", tt.in)
	}
}

func TestFormatCoord(t *testing.T) {
	geo := &audit.Geo{Lat: 49, Lon: -120.123456}
	assert.Equal(t, "49", formatCoord(geo, func(g *audit.Geo) float64 { return g.Lat }))
	assert.Equal(t, "-120.123456", formatCoord(geo, func(g *audit.Geo) float64 { return g.Lon }))
	assert.Equal(t, "", formatCoord(nil, func(g *audit.Geo) float64 { return g.Lat }))
}

func TestCSVFilename(t *testing.T) {
	date := time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "tru-access-audit_2026-08-31.csv", CSVFilename(date))

	padded := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "tru-access-audit_2026-01-02.csv", CSVFilename(padded))
}
