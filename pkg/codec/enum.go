package codec

import "golang.org/x/exp/constraints"

// NewEnum returns a codec for a closed set of integer values, encoded as
// the value's position in the declared set. Encoding a value outside the
// set, or decoding a position past it, fails with an EnumError.
func NewEnum[E constraints.Integer](index Codec[int], values ...E) Codec[E] {
	position := make(map[E]int, len(values))
	valid := make([]any, len(values))
	for i, v := range values {
		position[v] = i
		valid[i] = v
	}
	indexOf := func(value E) (int, error) {
		i, ok := position[value]
		if !ok {
			return 0, &EnumError{Value: value, Values: valid}
		}
		return i, nil
	}
	write := func(value E, dst []byte, offset int) (int, error) {
		i, err := indexOf(value)
		if err != nil {
			return 0, err
		}
		return index.Write(i, dst, offset)
	}
	read := func(src []byte, offset int) (E, int, error) {
		i, offset, err := index.Read(src, offset)
		if err != nil {
			return 0, 0, err
		}
		if i < 0 || i >= len(values) {
			return 0, 0, &EnumError{Value: i, Values: valid}
		}
		return values[i], offset, nil
	}
	if size, ok := index.FixedSize(); ok {
		return NewCodec(NewFixedSizeEncoder(size, write), NewFixedSizeDecoder(size, read))
	}
	sizeOf := func(value E) (int, error) {
		i, err := indexOf(value)
		if err != nil {
			return 0, err
		}
		return index.SizeOf(i)
	}
	return NewCodec(NewVariableSizeEncoder(sizeOf, write), NewVariableSizeDecoder(read))
}
