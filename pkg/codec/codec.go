// Package codec provides composable binary encoder/decoder pairs for
// primitives and generic containers. Codecs report a fixed size when their
// encoded length is value-independent, which lets composite codecs compute
// total sizes without encoding twice.
package codec

// Encoder writes values of type T into a caller-supplied byte slice.
type Encoder[T any] struct {
	fixedSize int
	sizeOf    func(value T) (int, error)
	write     func(value T, dst []byte, offset int) (int, error)
}

// NewFixedSizeEncoder returns an encoder that always writes exactly size bytes.
func NewFixedSizeEncoder[T any](size int, write func(value T, dst []byte, offset int) (int, error)) Encoder[T] {
	return Encoder[T]{
		fixedSize: size,
		write:     write,
	}
}

// NewVariableSizeEncoder returns an encoder whose output length depends on
// the value being encoded.
func NewVariableSizeEncoder[T any](sizeOf func(value T) (int, error), write func(value T, dst []byte, offset int) (int, error)) Encoder[T] {
	return Encoder[T]{
		fixedSize: -1,
		sizeOf:    sizeOf,
		write:     write,
	}
}

// FixedSize reports the encoded byte length when it is value-independent.
func (e Encoder[T]) FixedSize() (int, bool) {
	if e.fixedSize < 0 {
		return 0, false
	}
	return e.fixedSize, true
}

// SizeOf returns the exact number of bytes Write would produce for value,
// without encoding it.
func (e Encoder[T]) SizeOf(value T) (int, error) {
	if e.fixedSize >= 0 {
		return e.fixedSize, nil
	}
	return e.sizeOf(value)
}

// Write encodes value into dst starting at offset and returns the offset
// immediately after the written bytes.
func (e Encoder[T]) Write(value T, dst []byte, offset int) (int, error) {
	return e.write(value, dst, offset)
}

// Encode allocates a right-sized buffer and writes value into it.
func (e Encoder[T]) Encode(value T) ([]byte, error) {
	size, err := e.SizeOf(value)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, size)
	if _, err := e.write(value, dst, 0); err != nil {
		return nil, err
	}
	return dst, nil
}

// Decoder reads values of type T from a byte slice.
type Decoder[T any] struct {
	fixedSize int
	read      func(src []byte, offset int) (T, int, error)
}

// NewFixedSizeDecoder returns a decoder that always consumes exactly size bytes.
func NewFixedSizeDecoder[T any](size int, read func(src []byte, offset int) (T, int, error)) Decoder[T] {
	return Decoder[T]{
		fixedSize: size,
		read:      read,
	}
}

// NewVariableSizeDecoder returns a decoder whose consumed length depends on
// the bytes being decoded.
func NewVariableSizeDecoder[T any](read func(src []byte, offset int) (T, int, error)) Decoder[T] {
	return Decoder[T]{
		fixedSize: -1,
		read:      read,
	}
}

// FixedSize reports the decoded byte length when it is value-independent.
func (d Decoder[T]) FixedSize() (int, bool) {
	if d.fixedSize < 0 {
		return 0, false
	}
	return d.fixedSize, true
}

// Read decodes a value from src starting at offset and returns it along
// with the offset immediately after the consumed bytes.
func (d Decoder[T]) Read(src []byte, offset int) (T, int, error) {
	return d.read(src, offset)
}

// Decode reads a single value from the start of src. Trailing bytes are
// left for the caller to account for.
func (d Decoder[T]) Decode(src []byte) (T, error) {
	value, _, err := d.read(src, 0)
	return value, err
}

// Codec pairs an Encoder and a Decoder for the same type.
type Codec[T any] struct {
	enc Encoder[T]
	dec Decoder[T]
}

// NewCodec pairs an encoder with its matching decoder.
func NewCodec[T any](enc Encoder[T], dec Decoder[T]) Codec[T] {
	return Codec[T]{
		enc: enc,
		dec: dec,
	}
}

// Encoder returns the encoding half of the codec.
func (c Codec[T]) Encoder() Encoder[T] {
	return c.enc
}

// Decoder returns the decoding half of the codec.
func (c Codec[T]) Decoder() Decoder[T] {
	return c.dec
}

// FixedSize reports the encoded byte length when it is value-independent.
func (c Codec[T]) FixedSize() (int, bool) {
	return c.enc.FixedSize()
}

// SizeOf returns the exact encoded byte length of value without encoding it.
func (c Codec[T]) SizeOf(value T) (int, error) {
	return c.enc.SizeOf(value)
}

// Encode allocates a right-sized buffer and writes value into it.
func (c Codec[T]) Encode(value T) ([]byte, error) {
	return c.enc.Encode(value)
}

// Write encodes value into dst at offset, returning the next offset.
func (c Codec[T]) Write(value T, dst []byte, offset int) (int, error) {
	return c.enc.Write(value, dst, offset)
}

// Decode reads a single value from the start of src.
func (c Codec[T]) Decode(src []byte) (T, error) {
	return c.dec.Decode(src)
}

// Read decodes a value from src at offset, returning the next offset.
func (c Codec[T]) Read(src []byte, offset int) (T, int, error) {
	return c.dec.Read(src, offset)
}

func ensure(buf []byte, offset, need int) error {
	if offset < 0 || need < 0 || len(buf)-offset < need {
		have := len(buf) - offset
		if have < 0 {
			have = 0
		}
		return &BoundsError{
			Offset: offset,
			Need:   need,
			Have:   have,
		}
	}
	return nil
}
