package codec

// NewOption returns a codec for an optional value: a single presence byte
// followed by the value's encoding when present. A nil pointer encodes as
// absent; decoding an absent value yields nil.
func NewOption[T any](item Codec[T]) Codec[*T] {
	enc := NewVariableSizeEncoder(
		func(value *T) (int, error) {
			if value == nil {
				return 1, nil
			}
			size, err := item.SizeOf(*value)
			if err != nil {
				return 0, err
			}
			return 1 + size, nil
		},
		func(value *T, dst []byte, offset int) (int, error) {
			if err := ensure(dst, offset, 1); err != nil {
				return 0, err
			}
			if value == nil {
				dst[offset] = 0
				return offset + 1, nil
			}
			dst[offset] = 1
			return item.Write(*value, dst, offset+1)
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (*T, int, error) {
		if err := ensure(src, offset, 1); err != nil {
			return nil, 0, err
		}
		prefix := src[offset]
		offset++
		switch prefix {
		case 0:
			return nil, offset, nil
		case 1:
			value, next, err := item.Read(src, offset)
			if err != nil {
				return nil, 0, err
			}
			return &value, next, nil
		default:
			return nil, 0, &ValueOutOfRangeError{Codec: "option prefix", Value: int64(prefix), Max: 1}
		}
	})
	return NewCodec(enc, dec)
}
