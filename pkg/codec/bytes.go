package codec

// NewFixedBytes returns a codec for exactly size raw bytes. Encoding a
// slice of any other length fails with a SizeMismatchError.
func NewFixedBytes(size int) Codec[[]byte] {
	enc := NewFixedSizeEncoder(size, func(value []byte, dst []byte, offset int) (int, error) {
		if len(value) != size {
			return 0, &SizeMismatchError{Codec: "fixed bytes", Expected: size, Actual: len(value)}
		}
		if err := ensure(dst, offset, size); err != nil {
			return 0, err
		}
		copy(dst[offset:], value)
		return offset + size, nil
	})
	dec := NewFixedSizeDecoder(size, func(src []byte, offset int) ([]byte, int, error) {
		if err := ensure(src, offset, size); err != nil {
			return nil, 0, err
		}
		out := make([]byte, size)
		copy(out, src[offset:offset+size])
		return out, offset + size, nil
	})
	return NewCodec(enc, dec)
}

// NewBytes returns a codec for a count-prefixed byte slice.
func NewBytes(count Codec[int]) Codec[[]byte] {
	enc := NewVariableSizeEncoder(
		func(value []byte) (int, error) {
			prefix, err := count.SizeOf(len(value))
			if err != nil {
				return 0, err
			}
			return prefix + len(value), nil
		},
		func(value []byte, dst []byte, offset int) (int, error) {
			offset, err := count.Write(len(value), dst, offset)
			if err != nil {
				return 0, err
			}
			if err := ensure(dst, offset, len(value)); err != nil {
				return 0, err
			}
			copy(dst[offset:], value)
			return offset + len(value), nil
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) ([]byte, int, error) {
		length, offset, err := count.Read(src, offset)
		if err != nil {
			return nil, 0, err
		}
		if err := ensure(src, offset, length); err != nil {
			return nil, 0, err
		}
		out := make([]byte, length)
		copy(out, src[offset:offset+length])
		return out, offset + length, nil
	})
	return NewCodec(enc, dec)
}

// RemainderBytes returns a codec for a trailing byte sequence that runs to
// the end of the buffer. It must be the last field of any composite codec.
func RemainderBytes() Codec[[]byte] {
	enc := NewVariableSizeEncoder(
		func(value []byte) (int, error) {
			return len(value), nil
		},
		func(value []byte, dst []byte, offset int) (int, error) {
			if err := ensure(dst, offset, len(value)); err != nil {
				return 0, err
			}
			copy(dst[offset:], value)
			return offset + len(value), nil
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) ([]byte, int, error) {
		if err := ensure(src, offset, 0); err != nil {
			return nil, 0, err
		}
		out := make([]byte, len(src)-offset)
		copy(out, src[offset:])
		return out, len(src), nil
	})
	return NewCodec(enc, dec)
}
