package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// Positive checks that v is a finite number greater than zero.
func Positive(subject, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Invalid(subject, field, "must be positive, got %g", v)
	}
	return nil
}

// NonNegative checks that v is a finite number greater than or equal to zero.
func NonNegative(subject, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Invalid(subject, field, "must not be negative, got %g", v)
	}
	return nil
}

// UnitInterval checks that v lies in [0,1].
func UnitInterval(subject, field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return Invalid(subject, field, "must be within [0,1], got %g", v)
	}
	return nil
}

// Color checks that s is empty (no colour) or a hex colour such as "#1f2937".
// Short "#rgb" forms are accepted.
func Color(subject, field, s string) error {
	if s == "" {
		return nil
	}
	if _, err := colorful.Hex(s); err != nil {
		return Invalid(subject, field, "invalid colour %q", s)
	}
	return nil
}

// ValidateTemplateID validates a template identifier for use as a storage key.
// It rejects IDs that could be used for path traversal or key injection.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateTemplateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "template id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "template id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "template id contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
		"*",    // Key glob in Redis SCAN patterns
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "template id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a template file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
