package domain

import "fmt"

// ChangeLogLevel controls how much detail a write operation reports.
type ChangeLogLevel int

const (
	// ChangeLogOff records nothing.
	ChangeLogOff ChangeLogLevel = iota
	// ChangeLogObjects records which entries were created, updated or deleted.
	ChangeLogObjects
	// ChangeLogVerbose additionally records every attribute modification.
	ChangeLogVerbose
)

// ParseChangeLogLevel converts "off", "objects" or "verbose".
func ParseChangeLogLevel(s string) (ChangeLogLevel, error) {
	switch s {
	case "", "off":
		return ChangeLogOff, nil
	case "objects":
		return ChangeLogObjects, nil
	case "verbose":
		return ChangeLogVerbose, nil
	default:
		return ChangeLogOff, fmt.Errorf("invalid change log level: %s (valid options: off, objects, verbose)", s)
	}
}

// Options tune persist, merge and remove.
type Options struct {
	// Register claims AE titles and web application names in the uniqueness registries.
	Register bool
	// PreserveCertificates leaves certificate holder entries untouched on merge.
	PreserveCertificates bool
	// PreserveVendorData keeps the stored vendor data on merge.
	PreserveVendorData bool
	// ChangeLog selects the detail of the returned change log.
	ChangeLog ChangeLogLevel
}

// DefaultOptions registers unique names and reports changed objects.
func DefaultOptions() Options {
	return Options{Register: true, ChangeLog: ChangeLogObjects}
}
