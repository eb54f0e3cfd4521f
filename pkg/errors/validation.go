package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxGestureNameLength bounds names so they stay usable as file name stems.
const maxGestureNameLength = 128

// ValidateGestureName validates a gesture name for safety and correctness.
// Names become output file stems, so they are rejected when they could escape
// the output directory or break a terminal.
//
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateGestureName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidGesture, "gesture name cannot be empty")
	}

	if len(name) > maxGestureNameLength {
		return New(ErrCodeInvalidGesture, "gesture name too long (max %d characters)", maxGestureNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGesture, "gesture name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidGesture, "gesture name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDocumentPath validates the path of a gesture document.
// It must name a regular-looking file with one of the supported extensions.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".json", ".yaml", ".yml", ".toml":
		return nil
	case "":
		return New(ErrCodeInvalidPath, "path %q has no extension (want .xml, .json, .yaml or .toml)", path)
	default:
		return New(ErrCodeInvalidPath, "unsupported document extension %q", filepath.Ext(path))
	}
}

// FileStem converts a gesture name into a file-name-safe stem.
// Runs of characters outside [A-Za-z0-9._-] collapse into a single dash.
func FileStem(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		ok := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-')
		if ok {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	stem := strings.Trim(b.String(), "-.")
	if stem == "" {
		return "gesture"
	}
	return stem
}
