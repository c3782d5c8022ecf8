package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a diagram node identifier for safety and
// correctness. Node IDs end up in cache keys, share URLs, and DOT output,
// so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node ID too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "node ID contains invalid sequence: %q", pattern)
		}
	}
	return nil
}

// ValidatePath validates a local file path argument for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidSource, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidSource, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidSource, "URL must use http or https scheme")
	}
	return nil
}
