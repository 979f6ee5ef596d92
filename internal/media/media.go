package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies an accepted media container format.
type Kind string

const (
	KindMP4 Kind = "mp4"
	KindAVI Kind = "avi"
	KindMOV Kind = "mov"
)

// ErrInvalidFormat is returned when a selected file's format is outside the
// accepted set.
var ErrInvalidFormat = errors.New("unsupported media format")

// Upload is the record of a selected media file. It is replaced wholesale by
// any subsequent selection and never partially mutated.
type Upload struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Kind      Kind   `json:"kind"`
}

// KindFromFilename derives the media kind from the file extension,
// case-insensitively. Anything outside the accepted set fails with
// ErrInvalidFormat.
func KindFromFilename(name string) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch Kind(ext) {
	case KindMP4, KindAVI, KindMOV:
		return Kind(ext), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, ext)
	}
}

// FormatSize renders a byte count in human-readable form.
func FormatSize(sizeBytes int64) string {
	if sizeBytes <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
