package codec

// NewArray returns a codec for a count-prefixed slice of items.
func NewArray[T any](count Codec[int], item Codec[T]) Codec[[]T] {
	enc := NewVariableSizeEncoder(
		func(values []T) (int, error) {
			size, err := count.SizeOf(len(values))
			if err != nil {
				return 0, err
			}
			if fixed, ok := item.FixedSize(); ok {
				return size + fixed*len(values), nil
			}
			for _, v := range values {
				n, err := item.SizeOf(v)
				if err != nil {
					return 0, err
				}
				size += n
			}
			return size, nil
		},
		func(values []T, dst []byte, offset int) (int, error) {
			offset, err := count.Write(len(values), dst, offset)
			if err != nil {
				return 0, err
			}
			for _, v := range values {
				if offset, err = item.Write(v, dst, offset); err != nil {
					return 0, err
				}
			}
			return offset, nil
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) ([]T, int, error) {
		length, offset, err := count.Read(src, offset)
		if err != nil {
			return nil, 0, err
		}
		capHint := length
		if fixed, ok := item.FixedSize(); ok {
			// A fixed item size lets the whole body be bounds-checked up
			// front, before any allocation sized by untrusted input.
			if need := int64(length) * int64(fixed); need > int64(len(src)-offset) {
				return nil, 0, &BoundsError{Offset: offset, Need: int(need), Have: len(src) - offset}
			}
		} else if capHint > 1024 {
			capHint = 1024
		}
		values := make([]T, 0, capHint)
		for i := 0; i < length; i++ {
			var v T
			if v, offset, err = item.Read(src, offset); err != nil {
				return nil, 0, err
			}
			values = append(values, v)
		}
		return values, offset, nil
	})
	return NewCodec(enc, dec)
}

// NewFixedArray returns a codec for exactly length items with no count
// prefix. Encoding a slice of any other length fails with a
// SizeMismatchError.
func NewFixedArray[T any](length int, item Codec[T]) Codec[[]T] {
	write := func(values []T, dst []byte, offset int) (int, error) {
		if len(values) != length {
			return 0, &SizeMismatchError{Codec: "fixed array", Expected: length, Actual: len(values)}
		}
		var err error
		for _, v := range values {
			if offset, err = item.Write(v, dst, offset); err != nil {
				return 0, err
			}
		}
		return offset, nil
	}
	read := func(src []byte, offset int) ([]T, int, error) {
		values := make([]T, 0, length)
		var err error
		for i := 0; i < length; i++ {
			var v T
			if v, offset, err = item.Read(src, offset); err != nil {
				return nil, 0, err
			}
			values = append(values, v)
		}
		return values, offset, nil
	}
	if fixed, ok := item.FixedSize(); ok {
		return NewCodec(
			NewFixedSizeEncoder(length*fixed, write),
			NewFixedSizeDecoder(length*fixed, read),
		)
	}
	sizeOf := func(values []T) (int, error) {
		if len(values) != length {
			return 0, &SizeMismatchError{Codec: "fixed array", Expected: length, Actual: len(values)}
		}
		size := 0
		for _, v := range values {
			n, err := item.SizeOf(v)
			if err != nil {
				return 0, err
			}
			size += n
		}
		return size, nil
	}
	return NewCodec(NewVariableSizeEncoder(sizeOf, write), NewVariableSizeDecoder(read))
}
