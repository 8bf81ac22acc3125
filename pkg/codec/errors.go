package codec

import (
	"fmt"
	"strings"
)

// BoundsError is returned when a read or write would run past the end of
// the byte slice. Decoding never truncates silently.
type BoundsError struct {
	Offset int
	Need   int
	Have   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("codec: need %d byte(s) at offset %d, have %d", e.Need, e.Offset, e.Have)
}

// ValueOutOfRangeError is returned when a value cannot be represented in
// the codec's wire form.
type ValueOutOfRangeError struct {
	Codec string
	Value int64
	Max   int64
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("codec: %s value %d is outside the range [0, %d]", e.Codec, e.Value, e.Max)
}

// SizeMismatchError is returned when a value's length does not match the
// codec's declared length.
type SizeMismatchError struct {
	Codec    string
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("codec: %s expects length %d, got %d", e.Codec, e.Expected, e.Actual)
}

// VariantError is returned when a union value matches no declared variant,
// or when a discriminator selects a variant that does not exist. Index is
// -1 when the failure is on the value side.
type VariantError struct {
	Value any
	Index int
	Kinds []string
}

func (e *VariantError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("codec: discriminator %d selects no variant (variants: %s)", e.Index, strings.Join(e.Kinds, ", "))
	}
	return fmt.Sprintf("codec: value %v matches no variant (variants: %s)", e.Value, strings.Join(e.Kinds, ", "))
}

// EnumError is returned when a value is outside an enum codec's declared set.
type EnumError struct {
	Value  any
	Values []any
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("codec: %v is not one of the enum values %v", e.Value, e.Values)
}

// ConstantError is returned when decoded bytes do not match a declared constant.
type ConstantError struct {
	Expected []byte
	Actual   []byte
}

func (e *ConstantError) Error() string {
	return fmt.Sprintf("codec: expected constant 0x%x, got 0x%x", e.Expected, e.Actual)
}
