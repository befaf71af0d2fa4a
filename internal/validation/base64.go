package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"
)

// MaxBinaryValueSize caps a decoded vendor data or certificate value.
const MaxBinaryValueSize = 1 << 20

var (
	errEmptyBinary    = errors.New("decodes to no bytes")
	errBinaryTooLarge = errors.New("binary value too large")
)

// DecodeBinary decodes a binary attribute value such as dicomVendorData or
// userCertificate;binary. Values copied from LDIF or PEM bodies arrive wrapped,
// so white space is dropped before decoding.
func DecodeBinary(s string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	b, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errEmptyBinary
	}
	if len(b) > MaxBinaryValueSize {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", errBinaryTooLarge, len(b), MaxBinaryValueSize)
	}
	return b, nil
}

// Base64 accepts a binary attribute value DecodeBinary can read.
// Empty strings are left to Required.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := DecodeBinary(s); err != nil {
		switch {
		case errors.Is(err, errEmptyBinary):
			return validation.NewError("validation_binary_empty", "must not decode to an empty value")
		case errors.Is(err, errBinaryTooLarge):
			return validation.NewError("validation_binary_size", "must not exceed 1 MiB once decoded")
		}
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})
