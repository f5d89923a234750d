package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches #rgb, #rrggbb and #rrggbbaa colours.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor checks that c is a CSS hex colour with an optional alpha byte.
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidColor, "colour cannot be empty")
	}
	if !hexColorRegex.MatchString(c) {
		return New(ErrCodeInvalidColor, "not a hex colour: %q", c)
	}
	return nil
}

// ValidateGateID validates a gate identifier.
//
// Gate IDs double as SVG element IDs and as store keys, so they must be
// non-empty, free of whitespace and control characters, and at most 128 bytes.
func ValidateGateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGate, "gate id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidGate, "gate id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidGate, "gate id contains whitespace or control characters: %q", id)
		}
	}
	if strings.ContainsAny(id, `"<>&'`) {
		return New(ErrCodeInvalidGate, "gate id contains markup characters: %q", id)
	}
	return nil
}

// ValidatePath validates a relative input path served over HTTP.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No control characters
//   - No absolute paths
//   - No path traversal sequences (..)
//   - No backslashes
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}
