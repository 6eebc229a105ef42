package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// csvHeader is the fixed column layout of the long-format export. One row is
// emitted per (audit, feature, floor) triple in stored order.
var csvHeader = []string{
	"building_id",
	"building_name",
	"address",
	"created_at",
	"floor",
	"feature",
	"present",
	"notes",
	"photo_count",
	"latitude",
	"longitude",
}

// SerializeCSV encodes audits as RFC 4180-style CSV.
//
// The function is pure and produces byte-identical output for identical
// input: the result doubles as the cached snapshot persisted for deferred
// export, so any nondeterminism here would invalidate the cache. Nesting
// order is audit, then the audit's stored feature order, then its stored
// floor order. Missing optional values serialize as empty fields.
func SerializeCSV(audits []audit.BuildingAudit) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, a := range audits {
		for _, feature := range a.Features {
			row := a.Matrix[feature]
			for _, floor := range a.Floors {
				cell := row[floor]
				fields := []string{
					a.ID,
					a.BuildingName,
					a.Address,
					a.CreatedAt,
					floor,
					feature,
					strconv.FormatBool(cell.Present),
					cell.Notes,
					strconv.Itoa(len(cell.PhotoIDs)),
					formatCoord(cell.Geo, func(g *audit.Geo) float64 { return g.Lat }),
					formatCoord(cell.Geo, func(g *audit.Geo) float64 { return g.Lon }),
				}
				for i, f := range fields {
					fields[i] = escapeCSV(f)
				}
				b.WriteByte('\n')
				b.WriteString(strings.Join(fields, ","))
			}
		}
	}
	return b.String()
}

// CSVFilename returns the dated export filename, e.g.
// tru-access-audit_2026-08-31.csv.
func CSVFilename(date time.Time) string {
	return fmt.Sprintf("tru-access-audit_%04d-%02d-%02d.csv",
		date.Year(), int(date.Month()), date.Day())
}

// escapeCSV quotes a field only when it contains a comma, quote, CR, or LF,
// or has leading/trailing whitespace. Embedded quotes are doubled.
func escapeCSV(value string) string {
	if !needsQuotes(value) {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func needsQuotes(value string) bool {
	if value == "" {
		return false
	}
	if strings.ContainsAny(value, "\",\r\n") {
		return true
	}
	first := []rune(value)[0]
	last := []rune(value)[len([]rune(value))-1]
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}

// formatCoord renders a coordinate in shortest form ("49" not "49.000000"),
// or an empty field when no geo fix is attached.
func formatCoord(g *audit.Geo, pick func(*audit.Geo) float64) string {
	if g == nil {
		return ""
	}
	return strconv.FormatFloat(pick(g), 'f', -1, 64)
}
