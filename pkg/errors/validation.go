package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSheetPath validates the path of a sheet file before it is opened or
// written.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator)
func ValidateSheetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file: %q", path)
	}

	return nil
}

// ValidateVersion validates a sheet version string.
// Versions are free-form labels but must be non-empty, printable and short.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidInput, "version cannot be empty")
	}

	if len(version) > 64 {
		return New(ErrCodeInvalidInput, "version too long (max 64 characters)")
	}

	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "version contains invalid control characters")
		}
	}

	return nil
}

// ValidateNamePattern compiles a cell name pattern from configuration.
// An empty pattern is valid and yields a nil regexp.
func ValidateNamePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidInput, err, "invalid name pattern %q", pattern)
	}
	return re, nil
}
