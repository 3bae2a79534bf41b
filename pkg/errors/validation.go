package errors

import (
	"strings"
	"unicode"
)

// ValidateInputPath validates a definition file path for safety and
// correctness before it is opened. Include resolution feeds user-supplied
// paths through here as well.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "input path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidInput, "input path too long (max 500 characters)")
	}

	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidInput, "input path contains a null byte")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "input path contains invalid control characters")
		}
	}

	return nil
}

// ValidateEntityName validates a user-supplied block, style or group name.
// Names are free-form but must be printable and of reasonable length; empty
// names are allowed for anonymous blocks and handled by the caller.
func ValidateEntityName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name %q contains invalid control characters", name)
		}
	}

	return nil
}
