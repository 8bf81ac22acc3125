package codec

import "github.com/pkg/errors"

// Field binds one field of a struct codec to the struct type through
// accessor functions, so the struct itself needs no reflection.
type Field[S any] struct {
	name   string
	fixed  int
	sizeOf func(value S) (int, error)
	write  func(value S, dst []byte, offset int) (int, error)
	read   func(value *S, src []byte, offset int) (int, error)
}

// NewField declares a struct codec field. get extracts the field for
// encoding; set stores the decoded field.
func NewField[S, F any](name string, codec Codec[F], get func(S) F, set func(*S, F)) Field[S] {
	fixed := -1
	if size, ok := codec.FixedSize(); ok {
		fixed = size
	}
	return Field[S]{
		name:  name,
		fixed: fixed,
		sizeOf: func(value S) (int, error) {
			return codec.SizeOf(get(value))
		},
		write: func(value S, dst []byte, offset int) (int, error) {
			return codec.Write(get(value), dst, offset)
		},
		read: func(value *S, src []byte, offset int) (int, error) {
			field, next, err := codec.Read(src, offset)
			if err != nil {
				return 0, err
			}
			set(value, field)
			return next, nil
		},
	}
}

// NewStruct returns a codec that encodes the declared fields in order.
// The codec is fixed-size when every field is.
func NewStruct[S any](fields ...Field[S]) Codec[S] {
	fixed := 0
	allFixed := true
	for _, f := range fields {
		if f.fixed < 0 {
			allFixed = false
			break
		}
		fixed += f.fixed
	}
	write := func(value S, dst []byte, offset int) (int, error) {
		var err error
		for _, f := range fields {
			if offset, err = f.write(value, dst, offset); err != nil {
				return 0, errors.Wrapf(err, "field %s", f.name)
			}
		}
		return offset, nil
	}
	read := func(src []byte, offset int) (S, int, error) {
		var value S
		var err error
		for _, f := range fields {
			if offset, err = f.read(&value, src, offset); err != nil {
				var zero S
				return zero, 0, errors.Wrapf(err, "field %s", f.name)
			}
		}
		return value, offset, nil
	}
	if allFixed {
		return NewCodec(NewFixedSizeEncoder(fixed, write), NewFixedSizeDecoder(fixed, read))
	}
	sizeOf := func(value S) (int, error) {
		size := 0
		for _, f := range fields {
			n, err := f.sizeOf(value)
			if err != nil {
				return 0, errors.Wrapf(err, "field %s", f.name)
			}
			size += n
		}
		return size, nil
	}
	return NewCodec(NewVariableSizeEncoder(sizeOf, write), NewVariableSizeDecoder(read))
}
