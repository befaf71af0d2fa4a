// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// MaxAETitleLength is the longest AE title DICOM allows.
const MaxAETitleLength = 16

// WrapValidationError marks err as ErrInvalidInput and keeps it in the chain
// so per-field errors can still be read.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", err, apperrors.ErrInvalidInput)
}

// AETitle validates a DICOM AE title: at most 16 characters, no backslash and
// no control characters, not only spaces. The wildcard "*" is accepted.
var AETitle = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_ae_title_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > MaxAETitleLength {
		return validation.NewError("validation_ae_title_length", "must be at most 16 characters")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_ae_title_blank", "must not consist of spaces only")
	}
	for _, r := range s {
		if r == '\\' || unicode.IsControl(r) {
			return validation.NewError(
				"validation_ae_title_characters",
				"must not contain backslash or control characters",
			)
		}
	}
	return nil
})

// Port validates a TCP port, allowing -1 for connections that do not listen.
var Port = validation.By(func(value interface{}) error {
	p, ok := value.(int)
	if !ok {
		return validation.NewError("validation_port_type", "must be an integer")
	}
	if p == -1 || (p > 0 && p <= 65535) {
		return nil
	}
	return validation.NewError("validation_port_range", "must be between 1 and 65535, or -1 when not listening")
})

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
