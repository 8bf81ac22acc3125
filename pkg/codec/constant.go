package codec

import "bytes"

// NewConstant returns a codec that writes a fixed byte sequence and
// requires exactly those bytes on decode.
func NewConstant(expected []byte) Codec[struct{}] {
	size := len(expected)
	enc := NewFixedSizeEncoder(size, func(_ struct{}, dst []byte, offset int) (int, error) {
		if err := ensure(dst, offset, size); err != nil {
			return 0, err
		}
		copy(dst[offset:], expected)
		return offset + size, nil
	})
	dec := NewFixedSizeDecoder(size, func(src []byte, offset int) (struct{}, int, error) {
		if err := ensure(src, offset, size); err != nil {
			return struct{}{}, 0, err
		}
		if !bytes.Equal(src[offset:offset+size], expected) {
			actual := make([]byte, size)
			copy(actual, src[offset:])
			return struct{}{}, 0, &ConstantError{Expected: expected, Actual: actual}
		}
		return struct{}{}, offset + size, nil
	})
	return NewCodec(enc, dec)
}

// NewHiddenPrefix returns a codec that writes constant bytes ahead of the
// value and strips them on decode. The prefix never appears in the decoded
// value.
func NewHiddenPrefix[T any](prefix []byte, item Codec[T]) Codec[T] {
	constant := NewConstant(prefix)
	write := func(value T, dst []byte, offset int) (int, error) {
		offset, err := constant.Write(struct{}{}, dst, offset)
		if err != nil {
			return 0, err
		}
		return item.Write(value, dst, offset)
	}
	read := func(src []byte, offset int) (T, int, error) {
		_, offset, err := constant.Read(src, offset)
		if err != nil {
			var zero T
			return zero, 0, err
		}
		return item.Read(src, offset)
	}
	if fixed, ok := item.FixedSize(); ok {
		return NewCodec(
			NewFixedSizeEncoder(len(prefix)+fixed, write),
			NewFixedSizeDecoder(len(prefix)+fixed, read),
		)
	}
	sizeOf := func(value T) (int, error) {
		size, err := item.SizeOf(value)
		if err != nil {
			return 0, err
		}
		return len(prefix) + size, nil
	}
	return NewCodec(NewVariableSizeEncoder(sizeOf, write), NewVariableSizeDecoder(read))
}
