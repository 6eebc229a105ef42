package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented letters so they survive the ASCII strip as
// their base letter ("Café" becomes "Cafe", not "Caf").
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// sanitizeSegment makes a label safe for use as an archive path segment:
// non-ASCII and filesystem-unsafe characters are stripped, whitespace runs
// become single underscores, repeated and boundary underscores collapse, and
// an empty result is replaced by the fallback token.
func sanitizeSegment(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if folded, _, err := transform.String(asciiFold, trimmed); err == nil {
		trimmed = folded
	}

	var b strings.Builder
	for _, r := range trimmed {
		if r < 0x20 || r > 0x7e {
			continue
		}
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			continue
		}
		b.WriteRune(r)
	}

	// Splitting on spaces and underscores collapses runs and trims both ends
	// in one pass.
	parts := strings.FieldsFunc(b.String(), func(r rune) bool {
		return r == ' ' || r == '_'
	})
	safe := strings.Join(parts, "_")
	if safe == "" {
		return fallback
	}
	return safe
}

// mimeExtensions maps common photo mime types to file extensions.
var mimeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/heic": "heic",
	"image/heif": "heif",
	"image/webp": "webp",
}

func extensionFromFilename(filename string) string {
	trimmed := strings.TrimSpace(filename)
	lastDot := strings.LastIndexByte(trimmed, '.')
	if lastDot <= 0 || lastDot == len(trimmed)-1 {
		return ""
	}
	return trimmed[lastDot+1:]
}

func extensionFromMime(mimeType string) string {
	lower := strings.ToLower(mimeType)
	if ext, ok := mimeExtensions[lower]; ok {
		return ext
	}
	if suffix, ok := strings.CutPrefix(lower, "image/"); ok {
		return suffix
	}
	return ""
}

// sanitizeExtension lowercases and strips anything that is not alphanumeric;
// an empty result defaults to jpg.
func sanitizeExtension(ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(ext) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "jpg"
	}
	return b.String()
}

// photoExtension resolves the archive file extension for an asset: the
// stored filename's extension when well-formed, else the mime table, else
// jpg.
func photoExtension(filename, mimeType string) string {
	ext := extensionFromFilename(filename)
	if ext == "" {
		ext = extensionFromMime(mimeType)
	}
	return sanitizeExtension(ext)
}
