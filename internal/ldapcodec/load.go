package ldapcodec

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/allisson/dicomconf/internal/directory"
)

// String returns the first value of id, or def when absent.
func String(attrs directory.Attributes, id, def string) string {
	if v, ok := attrs.First(id); ok {
		return v
	}
	return def
}

// Strings returns all values of id.
func Strings(attrs directory.Attributes, id string) []string {
	vals, _ := attrs.Get(id)
	if len(vals) == 0 {
		return nil
	}
	return slices.Clone(vals)
}

// Bool returns the boolean value of id, or def when absent or malformed.
func Bool(attrs directory.Attributes, id string, def bool) bool {
	v, ok := attrs.First(id)
	if !ok {
		return def
	}
	switch strings.ToUpper(v) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	default:
		return def
	}
}

// OptionalBool returns the boolean value of id, or nil when absent.
func OptionalBool(attrs directory.Attributes, id string) *bool {
	v, ok := attrs.First(id)
	if !ok {
		return nil
	}
	b := strings.EqualFold(v, "TRUE")
	return &b
}

// Int returns the integer value of id, or def when absent or malformed.
func Int(attrs directory.Attributes, id string, def int) int {
	v, ok := attrs.First(id)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Long returns the 64-bit integer value of id, or def when absent or malformed.
func Long(attrs directory.Attributes, id string, def int64) int64 {
	v, ok := attrs.First(id)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Enum returns the value of id as a string enum, or def when absent.
func Enum[E ~string](attrs directory.Attributes, id string, def E) E {
	if v, ok := attrs.First(id); ok {
		return E(v)
	}
	return def
}

// Enums returns all values of id as string enums.
func Enums[E ~string](attrs directory.Attributes, id string) []E {
	vals, _ := attrs.Get(id)
	if len(vals) == 0 {
		return nil
	}
	out := make([]E, len(vals))
	for i, v := range vals {
		out[i] = E(v)
	}
	return out
}

// Ordinal returns the value of id as an ordinal enum, or def when absent or malformed.
func Ordinal[E ~int](attrs directory.Attributes, id string, def E) E {
	return E(Int(attrs, id, int(def)))
}

// Bytes returns all binary values of id.
func Bytes(attrs directory.Attributes, id string) [][]byte {
	vals, _ := attrs.Get(id)
	if len(vals) == 0 {
		return nil
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out
}

// Time returns the timestamp value of id, or the zero time when absent or malformed.
func Time(attrs directory.Attributes, id string) time.Time {
	v, ok := attrs.First(id)
	if !ok {
		return time.Time{}
	}
	for _, layout := range []string{GeneralizedTime, "20060102150405Z", "20060102150405.000-0700", "20060102150405-0700"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// TimeZone returns the location named by id, or nil when absent or unknown.
func TimeZone(attrs directory.Attributes, id string) *time.Location {
	v, ok := attrs.First(id)
	if !ok {
		return nil
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return nil
	}
	return loc
}

// Ordered returns the values of id in the order encoded by their ordinal prefixes.
func Ordered(attrs directory.Attributes, id string) []string {
	vals, _ := attrs.Get(id)
	if len(vals) == 0 {
		return nil
	}
	return DecodeOrdered(vals)
}
