package ldapcodec

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dicomconf/internal/directory"
	apperrors "github.com/allisson/dicomconf/internal/errors"
)

type role string

type levelOfSupport int

func TestStoreNotDefault(t *testing.T) {
	attrs := directory.Attributes{}

	StoreNotDefault(attrs, "dicomDescription", "", "")
	StoreNotDefault(attrs, "dicomInstalled", true, true)
	StoreNotDefault(attrs, "dcmLimitOpenAssociations", 0, 0)
	assert.Empty(t, attrs)

	StoreNotDefault(attrs, "dicomDescription", "CT scanner", "")
	StoreNotDefault(attrs, "dicomInstalled", false, true)
	StoreNotDefault(attrs, "dicomPort", 104, -1)
	StoreNotDefault(attrs, "dcmMaxSize", int64(1<<40), 0)
	StoreNotDefault(attrs, "dicomTransferRole", role("SCP"), "")
	StoreNotDefault(attrs, "dcmStorageConformance", levelOfSupport(2), 0)

	assert.Equal(t, []string{"CT scanner"}, attrs["dicomDescription"])
	assert.Equal(t, []string{"FALSE"}, attrs["dicomInstalled"])
	assert.Equal(t, []string{"104"}, attrs["dicomPort"])
	assert.Equal(t, []string{"1099511627776"}, attrs["dcmMaxSize"])
	assert.Equal(t, []string{"SCP"}, attrs["dicomTransferRole"])
	assert.Equal(t, []string{"2"}, attrs["dcmStorageConformance"])
}

func TestStoreDiff(t *testing.T) {
	tests := []struct {
		name     string
		prev     string
		value    string
		expected []directory.Modification
	}{
		{name: "unchanged", prev: "a", value: "a", expected: nil},
		{name: "both default", prev: "", value: "", expected: nil},
		{name: "regress to default", prev: "a", value: "", expected: []directory.Modification{directory.Remove("x")}},
		{name: "changed", prev: "a", value: "b", expected: []directory.Modification{directory.Replace("x", "b")}},
		{name: "from default", prev: "", value: "b", expected: []directory.Modification{directory.Replace("x", "b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StoreDiff(nil, "x", tt.prev, tt.value, ""))
		})
	}

	t.Run("bool with true default", func(t *testing.T) {
		mods := StoreDiff(nil, "dicomInstalled", false, true, true)
		assert.Equal(t, []directory.Modification{directory.Remove("dicomInstalled")}, mods)
	})
}

func TestStoreDiffNullable(t *testing.T) {
	yes, no := true, false
	assert.Empty(t, StoreDiffNullable(nil, "x", nil, nil))
	assert.Empty(t, StoreDiffNullable(nil, "x", &yes, &yes))
	assert.Equal(t, []directory.Modification{directory.Remove("x")}, StoreDiffNullable(nil, "x", &yes, nil))
	assert.Equal(t, []directory.Modification{directory.Replace("x", "FALSE")}, StoreDiffNullable(nil, "x", &yes, &no))
	assert.Equal(t, []directory.Modification{directory.Replace("x", "TRUE")}, StoreDiffNullable(nil, "x", nil, &yes))
}

func TestOrderedList(t *testing.T) {
	syntaxes := []string{"1.2.840.10008.1.2.4.70", "1.2.840.10008.1.2.1", "1.2.840.10008.1.2"}

	attrs := directory.Attributes{}
	require.NoError(t, StoreOrdered(attrs, "dicomTransferSyntax", syntaxes))
	assert.Equal(t, "{0}1.2.840.10008.1.2.4.70", attrs["dicomTransferSyntax"][0])

	shuffled := directory.Attributes{"dicomTransferSyntax": {
		attrs["dicomTransferSyntax"][2],
		attrs["dicomTransferSyntax"][0],
		attrs["dicomTransferSyntax"][1],
	}}
	assert.Equal(t, syntaxes, Ordered(shuffled, "dicomTransferSyntax"))

	t.Run("Success_PositionsBeyondTen", func(t *testing.T) {
		values := make([]string, MaxOrderedValues)
		for i := range values {
			values[i] = fmt.Sprintf("v%d", i)
		}
		encoded, err := EncodeOrdered(values)
		require.NoError(t, err)
		assert.Equal(t, "{a}v10", encoded[10])
		assert.Equal(t, "{z}v35", encoded[35])

		reversed := make([]string, len(encoded))
		for i, v := range encoded {
			reversed[len(encoded)-1-i] = v
		}
		assert.Equal(t, values, DecodeOrdered(reversed))
	})

	t.Run("Error_TooManyValues", func(t *testing.T) {
		values := make([]string, MaxOrderedValues+1)
		err := StoreOrdered(directory.Attributes{}, "x", values)
		assert.ErrorIs(t, err, ErrTooManyOrderedValues)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Success_DiffDetectsReorder", func(t *testing.T) {
		mods, err := StoreDiffOrdered(nil, "x", []string{"a", "b"}, []string{"b", "a"})
		require.NoError(t, err)
		assert.Equal(t, []directory.Modification{directory.Replace("x", "{0}b", "{1}a")}, mods)

		mods, err = StoreDiffOrdered(nil, "x", []string{"a", "b"}, []string{"a", "b"})
		require.NoError(t, err)
		assert.Empty(t, mods)
	})
}

func TestStoreDiffRefs(t *testing.T) {
	a := "cn=a,dicomDeviceName=d"
	b := "cn=b,dicomDeviceName=d"

	assert.Empty(t, StoreDiffRefs(nil, "ref", []string{a, b}, []string{b, a}))
	assert.Equal(t, []directory.Modification{directory.Replace("ref", a)}, StoreDiffRefs(nil, "ref", []string{a, b}, []string{a}))
	assert.Equal(t, []directory.Modification{directory.Remove("ref")}, StoreDiffRefs(nil, "ref", []string{a}, nil))
}

func TestStoreDiffBytes(t *testing.T) {
	one, two := []byte{1, 2, 3}, []byte{4, 5}

	assert.True(t, EqualBytesAnyOrder([][]byte{one, two}, [][]byte{two, one}))
	assert.False(t, EqualBytesAnyOrder([][]byte{one, one}, [][]byte{one, two}))
	assert.Empty(t, StoreDiffBytes(nil, "dicomVendorData", [][]byte{one, two}, [][]byte{two, one}))
	assert.Equal(t,
		[]directory.Modification{directory.Replace("dicomVendorData", string(two))},
		StoreDiffBytes(nil, "dicomVendorData", [][]byte{one}, [][]byte{two}),
	)
}

func TestGetters(t *testing.T) {
	attrs := directory.Attributes{
		"dicomDescription":         {"desc"},
		"dicomInstalled":           {"FALSE"},
		"dicomPort":                {"11112"},
		"dcmMaxSize":               {"9000000000"},
		"dicomSoftwareVersion":     {"1", "2"},
		"dicomTransferRole":        {"SCU"},
		"dcmStorageConformance":    {"3"},
		"dicomVendorData":          {"\x00\x01"},
		"dcmLastModified":          {"20240102030405.678Z"},
		"dcmTimeZoneOfDevice":      {"Europe/Vienna"},
		"dcmTLSNeedClientAuth":     {"TRUE"},
		"dicomNetworkConnectionRe": {"broken"},
	}

	assert.Equal(t, "desc", String(attrs, "dicomDescription", ""))
	assert.Equal(t, "fallback", String(attrs, "missing", "fallback"))
	assert.False(t, Bool(attrs, "dicomInstalled", true))
	assert.True(t, Bool(attrs, "missing", true))
	assert.Equal(t, 11112, Int(attrs, "dicomPort", -1))
	assert.Equal(t, -1, Int(attrs, "dicomDescription", -1))
	assert.Equal(t, int64(9000000000), Long(attrs, "dcmMaxSize", 0))
	assert.Equal(t, []string{"1", "2"}, Strings(attrs, "dicomSoftwareVersion"))
	assert.Nil(t, Strings(attrs, "missing"))
	assert.Equal(t, role("SCU"), Enum(attrs, "dicomTransferRole", role("")))
	assert.Equal(t, levelOfSupport(3), Ordinal(attrs, "dcmStorageConformance", levelOfSupport(0)))
	assert.Equal(t, [][]byte{{0, 1}}, Bytes(attrs, "dicomVendorData"))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 678000000, time.UTC), Time(attrs, "dcmLastModified"))
	assert.True(t, Time(attrs, "missing").IsZero())
	require.NotNil(t, TimeZone(attrs, "dcmTimeZoneOfDevice"))
	assert.Equal(t, "Europe/Vienna", TimeZone(attrs, "dcmTimeZoneOfDevice").String())
	assert.Nil(t, OptionalBool(attrs, "dicomAssociationInitiator"))
	require.NotNil(t, OptionalBool(attrs, "dcmTLSNeedClientAuth"))
	assert.True(t, *OptionalBool(attrs, "dcmTLSNeedClientAuth"))
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 7, 8, 9, 10, 123000000, time.UTC)
	attrs := directory.Attributes{}
	StoreTime(attrs, "dcmLastModified", ts)
	assert.Equal(t, []string{"20250607080910.123Z"}, attrs["dcmLastModified"])
	assert.True(t, ts.Equal(Time(attrs, "dcmLastModified")))

	assert.Empty(t, StoreDiffTime(nil, "dcmLastModified", ts, ts))
	assert.Equal(t, []directory.Modification{directory.Remove("dcmLastModified")},
		StoreDiffTime(nil, "dcmLastModified", ts, time.Time{}))
}
