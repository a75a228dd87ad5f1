package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds attribute names and transit line ids.
const maxNameLength = 64

// ValidateAttributeName validates the name of a declared extra attribute.
//
// Attribute names end up inside aggregation rule text ("name: function"), so
// the characters that structure that text are rejected:
//   - No empty names
//   - No whitespace or control characters
//   - No rule separators (':' and ',')
//   - Maximum length of 64 characters
func ValidateAttributeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "attribute name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "attribute name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "attribute name %q contains whitespace or control characters", name)
		}
	}
	if strings.ContainsAny(name, ":,") {
		return New(ErrCodeInvalidInput, "attribute name %q cannot contain ':' or ','", name)
	}
	return nil
}

// ValidateLineID validates a transit line identifier.
func ValidateLineID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "transit line id cannot be empty")
	}
	if len(id) > maxNameLength {
		return New(ErrCodeInvalidInput, "transit line id too long (max %d characters)", maxNameLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "transit line id contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an input or output file path.
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
