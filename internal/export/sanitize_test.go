package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "Library", "Library"},
		{"spaces become underscores", "Main Library", "Main_Library"},
		{"runs collapse", "Main   Library__West", "Main_Library_West"},
		{"boundary underscores trimmed", "_Main Library_", "Main_Library"},
		{"unsafe characters stripped", `A<B>:C"D/E\F|G?H*I`, "ABCDEFGHI"},
		{"accents fold to ascii", "Café Résidence", "Cafe_Residence"},
		{"non-latin stripped", "図書館", "fallback"},
		{"empty", "", "fallback"},
		{"whitespace only", "   ", "fallback"},
		{"control characters stripped", "a\x00b\x1fc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSegment(tt.in, "fallback"))
		})
	}
}

func TestPhotoExtension(t *testing.T) {
	tests := []struct {
		name, filename, mimeType, want string
	}{
		{"filename extension wins", "IMG_0042.PNG", "image/jpeg", "png"},
		{"mime fallback", "", "image/heic", "heic"},
		{"unknown image mime uses subtype", "", "image/avif", "avif"},
		{"non-image mime defaults to jpg", "", "application/pdf", "jpg"},
		{"dotfile has no extension", ".hidden", "image/png", "png"},
		{"trailing dot has no extension", "photo.", "image/webp", "webp"},
		{"extension sanitized", "photo.J P G!", "", "jpg"},
		{"nothing known", "", "", "jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, photoExtension(tt.filename, tt.mimeType))
		})
	}
}
