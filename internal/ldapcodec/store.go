// Package ldapcodec converts typed configuration fields to and from directory
// attribute values and computes the minimal modification set between two
// typed values.
//
// Attributes whose value equals the field's default are never written: their
// absence implies the default on read.
package ldapcodec

import (
	"reflect"
	"strconv"
	"time"

	"github.com/allisson/dicomconf/internal/directory"
)

// Scalar is the set of single-valued field types the codec handles generically.
type Scalar interface {
	~string | ~bool | ~int | ~int64
}

// GeneralizedTime is the layout used for timestamp attributes.
const GeneralizedTime = "20060102150405.000Z"

// FormatScalar renders v as a directory value. Booleans use the LDAP TRUE/FALSE syntax.
func FormatScalar[T Scalar](v T) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return FormatBool(rv.Bool())
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	default:
		return rv.String()
	}
}

// FormatBool renders b in LDAP boolean syntax.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// StoreNotDefault writes value unless it equals def. Empty strings are never
// written since the directory cannot hold empty values.
func StoreNotDefault[T Scalar](attrs directory.Attributes, id string, value, def T) {
	if isStored(value, def) {
		attrs.Put(id, FormatScalar(value))
	}
}

// StoreRequired always writes value.
func StoreRequired[T Scalar](attrs directory.Attributes, id string, value T) {
	attrs.Put(id, FormatScalar(value))
}

// StoreNotNull writes an optional boolean when it is set.
func StoreNotNull(attrs directory.Attributes, id string, value *bool) {
	if value != nil {
		attrs.Put(id, FormatBool(*value))
	}
}

// StoreNotEmpty writes a multi-valued attribute when values is not empty.
func StoreNotEmpty[T ~string](attrs directory.Attributes, id string, values []T) {
	if len(values) > 0 {
		attrs.Put(id, toStrings(values)...)
	}
}

// StoreBytes writes a binary multi-valued attribute when values is not empty.
func StoreBytes(attrs directory.Attributes, id string, values [][]byte) {
	if len(values) > 0 {
		attrs.Put(id, bytesToStrings(values)...)
	}
}

// StoreTime writes a timestamp unless it is the zero time.
func StoreTime(attrs directory.Attributes, id string, t time.Time) {
	if !t.IsZero() {
		attrs.Put(id, FormatTime(t))
	}
}

// StoreTimeZone writes the IANA name of loc when loc is set.
func StoreTimeZone(attrs directory.Attributes, id string, loc *time.Location) {
	if loc != nil {
		attrs.Put(id, loc.String())
	}
}

// StoreOrdered writes values with ordinal prefixes so that their order survives
// a round trip through an unordered attribute.
func StoreOrdered(attrs directory.Attributes, id string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	encoded, err := EncodeOrdered(values)
	if err != nil {
		return err
	}
	attrs.Put(id, encoded...)
	return nil
}

// FormatTime renders t in GeneralizedTime, UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(GeneralizedTime)
}

func isStored[T Scalar](value, def T) bool {
	return value != def && FormatScalar(value) != ""
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func bytesToStrings(values [][]byte) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
