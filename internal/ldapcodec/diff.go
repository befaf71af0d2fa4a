package ldapcodec

import (
	"bytes"
	"slices"
	"time"

	"github.com/allisson/dicomconf/internal/directory"
)

// StoreDiff appends the modification turning prev into value: a removal when
// value regresses to def, a replacement when it changes to anything else,
// nothing when it is unchanged.
func StoreDiff[T Scalar](mods []directory.Modification, id string, prev, value, def T) []directory.Modification {
	if prev == value {
		return mods
	}
	if !isStored(value, def) {
		if isStored(prev, def) {
			return append(mods, directory.Remove(id))
		}
		return mods
	}
	return append(mods, directory.Replace(id, FormatScalar(value)))
}

// StoreDiffRequired appends a replacement when an always-written value changed.
func StoreDiffRequired[T Scalar](mods []directory.Modification, id string, prev, value T) []directory.Modification {
	if prev == value {
		return mods
	}
	return append(mods, directory.Replace(id, FormatScalar(value)))
}

// StoreDiffNullable diffs an optional boolean.
func StoreDiffNullable(mods []directory.Modification, id string, prev, value *bool) []directory.Modification {
	switch {
	case prev == nil && value == nil:
		return mods
	case value == nil:
		return append(mods, directory.Remove(id))
	case prev != nil && *prev == *value:
		return mods
	default:
		return append(mods, directory.Replace(id, FormatBool(*value)))
	}
}

// StoreDiffList diffs a multi-valued attribute; a reordering counts as a change.
func StoreDiffList[T ~string](mods []directory.Modification, id string, prev, values []T) []directory.Modification {
	if slices.Equal(prev, values) {
		return mods
	}
	if len(values) == 0 {
		return append(mods, directory.Remove(id))
	}
	return append(mods, directory.Replace(id, toStrings(values)...))
}

// StoreDiffOrdered diffs an ordered list written with ordinal prefixes.
func StoreDiffOrdered(mods []directory.Modification, id string, prev, values []string) ([]directory.Modification, error) {
	if slices.Equal(prev, values) {
		return mods, nil
	}
	if len(values) == 0 {
		return append(mods, directory.Remove(id)), nil
	}
	encoded, err := EncodeOrdered(values)
	if err != nil {
		return mods, err
	}
	return append(mods, directory.Replace(id, encoded...)), nil
}

// StoreDiffRefs diffs DN references by set equality; order is irrelevant.
func StoreDiffRefs(mods []directory.Modification, id string, prev, values []string) []directory.Modification {
	if sameSet(prev, values) {
		return mods
	}
	if len(values) == 0 {
		return append(mods, directory.Remove(id))
	}
	return append(mods, directory.Replace(id, values...))
}

// StoreDiffBytes diffs binary values with any-order matching: every old value
// must have an equal new value and vice versa.
func StoreDiffBytes(mods []directory.Modification, id string, prev, values [][]byte) []directory.Modification {
	if EqualBytesAnyOrder(prev, values) {
		return mods
	}
	if len(values) == 0 {
		return append(mods, directory.Remove(id))
	}
	return append(mods, directory.Replace(id, bytesToStrings(values)...))
}

// StoreDiffTime diffs a timestamp; the zero time means absent.
func StoreDiffTime(mods []directory.Modification, id string, prev, value time.Time) []directory.Modification {
	if prev.Equal(value) {
		return mods
	}
	if value.IsZero() {
		return append(mods, directory.Remove(id))
	}
	return append(mods, directory.Replace(id, FormatTime(value)))
}

// StoreDiffTimeZone diffs a time zone by name; nil means absent.
func StoreDiffTimeZone(mods []directory.Modification, id string, prev, value *time.Location) []directory.Modification {
	if zoneName(prev) == zoneName(value) {
		return mods
	}
	if value == nil {
		return append(mods, directory.Remove(id))
	}
	return append(mods, directory.Replace(id, value.String()))
}

// EqualBytesAnyOrder reports whether a and b hold the same byte strings regardless of order.
func EqualBytesAnyOrder(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll(haystack, needles [][]byte) bool {
	for _, n := range needles {
		if !slices.ContainsFunc(haystack, func(h []byte) bool { return bytes.Equal(h, n) }) {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		if set[v] == 0 {
			return false
		}
		set[v]--
	}
	return true
}

func zoneName(loc *time.Location) string {
	if loc == nil {
		return ""
	}
	return loc.String()
}
