package codec

import "math"

// Count codecs express length prefixes as plain ints so collection codecs
// can be composed with whichever prefix width a wire format calls for.

// ShortU16Count returns a count prefix codec in compact-u16 form.
func ShortU16Count() Codec[int] {
	inner := ShortU16()
	enc := NewVariableSizeEncoder(
		func(count int) (int, error) {
			if count < 0 || count > math.MaxUint16 {
				return 0, &ValueOutOfRangeError{Codec: "shortU16 count", Value: int64(count), Max: math.MaxUint16}
			}
			return shortU16Size(uint16(count)), nil
		},
		func(count int, dst []byte, offset int) (int, error) {
			if count < 0 || count > math.MaxUint16 {
				return 0, &ValueOutOfRangeError{Codec: "shortU16 count", Value: int64(count), Max: math.MaxUint16}
			}
			return inner.Write(uint16(count), dst, offset)
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (int, int, error) {
		value, next, err := inner.Read(src, offset)
		if err != nil {
			return 0, 0, err
		}
		return int(value), next, nil
	})
	return NewCodec(enc, dec)
}

// U8Count returns a single-byte count prefix codec.
func U8Count() Codec[int] {
	inner := U8()
	enc := NewFixedSizeEncoder(1, func(count int, dst []byte, offset int) (int, error) {
		if count < 0 || count > math.MaxUint8 {
			return 0, &ValueOutOfRangeError{Codec: "u8 count", Value: int64(count), Max: math.MaxUint8}
		}
		return inner.Write(uint8(count), dst, offset)
	})
	dec := NewFixedSizeDecoder(1, func(src []byte, offset int) (int, int, error) {
		value, next, err := inner.Read(src, offset)
		if err != nil {
			return 0, 0, err
		}
		return int(value), next, nil
	})
	return NewCodec(enc, dec)
}

// U32Count returns a little-endian 4-byte count prefix codec.
func U32Count() Codec[int] {
	inner := U32()
	enc := NewFixedSizeEncoder(4, func(count int, dst []byte, offset int) (int, error) {
		if count < 0 || int64(count) > math.MaxUint32 {
			return 0, &ValueOutOfRangeError{Codec: "u32 count", Value: int64(count), Max: math.MaxUint32}
		}
		return inner.Write(uint32(count), dst, offset)
	})
	dec := NewFixedSizeDecoder(4, func(src []byte, offset int) (int, int, error) {
		value, next, err := inner.Read(src, offset)
		if err != nil {
			return 0, 0, err
		}
		return int(value), next, nil
	})
	return NewCodec(enc, dec)
}
