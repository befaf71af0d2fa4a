// Package errors provides the error taxonomy shared by the directory access layer,
// the configuration engine and the outer surfaces (HTTP, CLI). Callers classify
// failures with errors.Is against the sentinels below.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors used across all modules.
var (
	// ErrNotFound indicates the requested device, entity or directory entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyExists indicates an entry or a uniqueness claim is already present.
	ErrAlreadyExists = fmt.Errorf("already exists: %w", ErrConflict)

	// ErrTransportBroken indicates the directory connection failed and could not be recovered.
	ErrTransportBroken = errors.New("directory transport broken")

	// ErrConfiguration indicates any other failure reported by the directory backend.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// CleanupError reports a primary failure whose compensating actions
// (rollback of created entries, release of registry claims) failed as well.
// The directory may be left partially applied when this error is returned.
type CleanupError struct {
	// Cause is the failure that triggered the cleanup.
	Cause error
	// Failures lists every compensating action that did not succeed.
	Failures []error
}

// Error implements error.
func (e *CleanupError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%v (cleanup incomplete: %s)", e.Cause, strings.Join(msgs, "; "))
}

// Unwrap exposes the primary cause so errors.Is keeps classifying the original failure.
func (e *CleanupError) Unwrap() error {
	return e.Cause
}

// WithCleanup returns cause unchanged when no cleanup failed, or a *CleanupError otherwise.
func WithCleanup(cause error, failures []error) error {
	if len(failures) == 0 {
		return cause
	}
	return &CleanupError{Cause: cause, Failures: failures}
}

// IsPartiallyApplied reports whether err carries failed cleanup actions.
func IsPartiallyApplied(err error) bool {
	var ce *CleanupError
	return errors.As(err, &ce)
}
