package ldapcodec

import (
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// MaxOrderedValues is the longest list the ordinal prefix can encode.
const MaxOrderedValues = 36

// ErrTooManyOrderedValues is returned when an ordered list exceeds MaxOrderedValues.
var ErrTooManyOrderedValues = apperrors.Wrap(apperrors.ErrInvalidInput, "ordered list exceeds 36 values")

// EncodeOrdered prefixes every value with "{d}", d being its base-36 position.
func EncodeOrdered(values []string) ([]string, error) {
	if len(values) > MaxOrderedValues {
		return nil, ErrTooManyOrderedValues
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "{" + strconv.FormatInt(int64(i), 36) + "}" + v
	}
	return out, nil
}

// DecodeOrdered sorts values by their ordinal prefix and strips it. Values
// without a prefix keep their relative order after the prefixed ones.
func DecodeOrdered(values []string) []string {
	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, func(a, b string) int {
		pa, oka := ordinalPrefix(a)
		pb, okb := ordinalPrefix(b)
		switch {
		case oka && okb:
			return strings.Compare(pa, pb)
		case oka:
			return -1
		case okb:
			return 1
		default:
			return 0
		}
	})
	for i, v := range sorted {
		if _, ok := ordinalPrefix(v); ok {
			sorted[i] = v[3:]
		}
	}
	return sorted
}

func ordinalPrefix(v string) (string, bool) {
	if len(v) < 3 || v[0] != '{' || v[2] != '}' {
		return "", false
	}
	c := v[1]
	if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') {
		return v[:3], true
	}
	return "", false
}
