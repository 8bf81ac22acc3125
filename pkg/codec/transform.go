package codec

// NewTransform re-types a codec through a pair of lossless conversions:
// into maps the outer type to the inner one for encoding, from maps it
// back for decoding.
func NewTransform[T, U any](inner Codec[U], into func(T) U, from func(U) T) Codec[T] {
	return NewCodec(
		TransformEncoder(inner.Encoder(), into),
		TransformDecoder(inner.Decoder(), from),
	)
}

// TransformEncoder adapts an Encoder[U] into an Encoder[T].
func TransformEncoder[T, U any](inner Encoder[U], into func(T) U) Encoder[T] {
	write := func(value T, dst []byte, offset int) (int, error) {
		return inner.Write(into(value), dst, offset)
	}
	if size, ok := inner.FixedSize(); ok {
		return NewFixedSizeEncoder(size, write)
	}
	return NewVariableSizeEncoder(
		func(value T) (int, error) {
			return inner.SizeOf(into(value))
		},
		write,
	)
}

// TransformDecoder adapts a Decoder[U] into a Decoder[T].
func TransformDecoder[T, U any](inner Decoder[U], from func(U) T) Decoder[T] {
	read := func(src []byte, offset int) (T, int, error) {
		value, next, err := inner.Read(src, offset)
		if err != nil {
			var zero T
			return zero, 0, err
		}
		return from(value), next, nil
	}
	if size, ok := inner.FixedSize(); ok {
		return NewFixedSizeDecoder(size, read)
	}
	return NewVariableSizeDecoder(read)
}
