package errors

import (
	"strings"
	"unicode"
)

// maxFieldNameLength bounds attribute names accepted in projection lists.
const maxFieldNameLength = 128

// ValidateFieldName validates an attribute name used in a projection
// whitelist. Names are matched literally against scene fields, so the rules
// only reject values that can never match anything:
//   - No empty or whitespace-only names
//   - No surrounding whitespace (usually a stray space after a comma)
//   - No control characters
//   - Maximum length of 128 characters
func ValidateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidOption, "field name cannot be empty")
	}
	if len(name) > maxFieldNameLength {
		return New(ErrCodeInvalidOption, "field name too long (max %d characters)", maxFieldNameLength)
	}
	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidOption, "field name %q has surrounding whitespace", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOption, "field name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateFieldNames validates every name in a projection list and rejects
// duplicates.
func ValidateFieldNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := ValidateFieldName(name); err != nil {
			return err
		}
		if seen[name] {
			return New(ErrCodeInvalidOption, "duplicate field name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}
