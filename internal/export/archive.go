package export

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/truaccess/fieldaudit/internal/audit"
)

// deflateLevel matches the moderate compression the exported archives have
// always used; the exact ratio is not a contract, only that decompression
// recovers byte-identical payloads.
const deflateLevel = 6

// PhotoSource resolves photo assets by id. *store.Store satisfies it.
type PhotoSource interface {
	GetPhoto(ctx context.Context, id string) (audit.PhotoAsset, bool, error)
}

// BuildArchive writes a zip archive to w containing audit.csv (the provided
// snapshot, verbatim) and one file per unique referenced photo, filed under
// photos/<auditId>_<building>/<feature>__<floor>__<photoId>.<ext> with every
// path segment sanitized.
//
// Deduplication is first-occurrence-wins across the whole pass: a photo id
// already emitted for an earlier (audit, feature, floor) combination is
// skipped on later encounters, so each unique blob appears exactly once.
// A photo id that does not resolve is skipped silently, matching the
// dangling-reference tolerance of the photo store.
func BuildArchive(ctx context.Context, w io.Writer, audits []audit.BuildingAudit, csvSnapshot string, photos PhotoSource) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, deflateLevel)
	})

	if err := writeArchiveFile(zw, "audit.csv", []byte(csvSnapshot)); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	for _, a := range audits {
		building := sanitizeSegment(a.BuildingName, "building")
		folder := fmt.Sprintf("photos/%s_%s", a.ID, building)

		for _, feature := range a.Features {
			safeFeature := sanitizeSegment(feature, "feature")
			row := a.Matrix[feature]
			for _, floor := range a.Floors {
				safeFloor := sanitizeSegment(floor, "floor")
				for _, photoID := range row[floor].PhotoIDs {
					if _, dup := seen[photoID]; dup {
						continue
					}
					seen[photoID] = struct{}{}

					asset, ok, err := photos.GetPhoto(ctx, photoID)
					if err != nil {
						return fmt.Errorf("build archive: %w", err)
					}
					if !ok {
						continue
					}
					name := fmt.Sprintf("%s/%s__%s__%s.%s",
						folder, safeFeature, safeFloor, photoID,
						photoExtension(asset.Filename, asset.MimeType))
					if err := writeArchiveFile(zw, name, asset.Blob); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("build archive: close: %w", err)
	}
	return nil
}

// ArchiveFilename returns the dated export filename, e.g.
// tru-accessibility-audit_2026-08-31.zip.
func ArchiveFilename(date time.Time) string {
	return fmt.Sprintf("tru-accessibility-audit_%04d-%02d-%02d.zip",
		date.Year(), int(date.Month()), date.Day())
}

func writeArchiveFile(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("build archive: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("build archive: write %s: %w", name, err)
	}
	return nil
}
