package codec

import (
	"encoding/binary"
	"math"
)

// U8 returns a codec for an unsigned byte.
func U8() Codec[uint8] {
	enc := NewFixedSizeEncoder(1, func(value uint8, dst []byte, offset int) (int, error) {
		if err := ensure(dst, offset, 1); err != nil {
			return 0, err
		}
		dst[offset] = value
		return offset + 1, nil
	})
	dec := NewFixedSizeDecoder(1, func(src []byte, offset int) (uint8, int, error) {
		if err := ensure(src, offset, 1); err != nil {
			return 0, 0, err
		}
		return src[offset], offset + 1, nil
	})
	return NewCodec(enc, dec)
}

// U16 returns a codec for a little-endian unsigned 16-bit integer.
func U16() Codec[uint16] {
	enc := NewFixedSizeEncoder(2, func(value uint16, dst []byte, offset int) (int, error) {
		if err := ensure(dst, offset, 2); err != nil {
			return 0, err
		}
		binary.LittleEndian.PutUint16(dst[offset:], value)
		return offset + 2, nil
	})
	dec := NewFixedSizeDecoder(2, func(src []byte, offset int) (uint16, int, error) {
		if err := ensure(src, offset, 2); err != nil {
			return 0, 0, err
		}
		return binary.LittleEndian.Uint16(src[offset:]), offset + 2, nil
	})
	return NewCodec(enc, dec)
}

// U32 returns a codec for a little-endian unsigned 32-bit integer.
func U32() Codec[uint32] {
	enc := NewFixedSizeEncoder(4, func(value uint32, dst []byte, offset int) (int, error) {
		if err := ensure(dst, offset, 4); err != nil {
			return 0, err
		}
		binary.LittleEndian.PutUint32(dst[offset:], value)
		return offset + 4, nil
	})
	dec := NewFixedSizeDecoder(4, func(src []byte, offset int) (uint32, int, error) {
		if err := ensure(src, offset, 4); err != nil {
			return 0, 0, err
		}
		return binary.LittleEndian.Uint32(src[offset:]), offset + 4, nil
	})
	return NewCodec(enc, dec)
}

// U64 returns a codec for a little-endian unsigned 64-bit integer.
func U64() Codec[uint64] {
	enc := NewFixedSizeEncoder(8, func(value uint64, dst []byte, offset int) (int, error) {
		if err := ensure(dst, offset, 8); err != nil {
			return 0, err
		}
		binary.LittleEndian.PutUint64(dst[offset:], value)
		return offset + 8, nil
	})
	dec := NewFixedSizeDecoder(8, func(src []byte, offset int) (uint64, int, error) {
		if err := ensure(src, offset, 8); err != nil {
			return 0, 0, err
		}
		return binary.LittleEndian.Uint64(src[offset:]), offset + 8, nil
	})
	return NewCodec(enc, dec)
}

func shortU16Size(value uint16) int {
	switch {
	case value < 1<<7:
		return 1
	case value < 1<<14:
		return 2
	default:
		return 3
	}
}

// ShortU16 returns a codec for the network's compact-u16 convention: a
// little-endian base-128 varint spanning one to three bytes. Decoding
// rejects encodings longer than three bytes and values above 0xffff.
func ShortU16() Codec[uint16] {
	enc := NewVariableSizeEncoder(
		func(value uint16) (int, error) {
			return shortU16Size(value), nil
		},
		func(value uint16, dst []byte, offset int) (int, error) {
			if err := ensure(dst, offset, shortU16Size(value)); err != nil {
				return 0, err
			}
			rem := value
			for {
				b := byte(rem & 0x7f)
				rem >>= 7
				if rem == 0 {
					dst[offset] = b
					return offset + 1, nil
				}
				dst[offset] = b | 0x80
				offset++
			}
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (uint16, int, error) {
		var value uint32
		for i := 0; ; i++ {
			if i >= 3 {
				return 0, 0, &ValueOutOfRangeError{Codec: "shortU16", Value: int64(value), Max: math.MaxUint16}
			}
			if err := ensure(src, offset, 1); err != nil {
				return 0, 0, err
			}
			b := src[offset]
			offset++
			value |= uint32(b&0x7f) << (7 * i)
			if b&0x80 == 0 {
				break
			}
		}
		if value > math.MaxUint16 {
			return 0, 0, &ValueOutOfRangeError{Codec: "shortU16", Value: int64(value), Max: math.MaxUint16}
		}
		return uint16(value), offset, nil
	})
	return NewCodec(enc, dec)
}
