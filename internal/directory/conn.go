package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/go-ldap/ldap/v3"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// Conn is a raw directory connection. Implementations report failures as
// *ldap.Error values so that Access can classify them uniformly.
type Conn interface {
	Search(base string, scope Scope, filter string, attrs []string) ([]*Entry, error)
	Add(dn string, attrs Attributes) error
	Delete(dn string) error
	Modify(dn string, mods []Modification) error
	Close() error
}

// Dialer opens a new bound connection.
type Dialer func(ctx context.Context) (Conn, error)

// brokenResultCodes are the result codes treated as a lost connection.
var brokenResultCodes = []uint16{
	ldap.ErrorNetwork,
	ldap.LDAPResultUnavailable,
}

// IsBroken reports whether err signals that the underlying transport is unusable.
func IsBroken(err error) bool {
	if err == nil {
		return false
	}
	if ldap.IsErrorAnyOf(err, brokenResultCodes...) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify maps a transport error onto the application error taxonomy.
func classify(op, dn string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject):
		return fmt.Errorf("%s %q: %w: %w", op, dn, apperrors.ErrNotFound, err)
	case ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists):
		return fmt.Errorf("%s %q: %w: %w", op, dn, apperrors.ErrAlreadyExists, err)
	case IsBroken(err):
		return fmt.Errorf("%s %q: %w: %w", op, dn, apperrors.ErrTransportBroken, err)
	default:
		return fmt.Errorf("%s %q: %w: %w", op, dn, apperrors.ErrConfiguration, err)
	}
}
