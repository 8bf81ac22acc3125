package codec

import "strconv"

// NewUnion returns a codec that delegates to one of several variant codecs
// sharing the same Go type. fromValue picks the variant index for a value
// being encoded; fromBytes picks it for bytes being decoded and must not
// consume input. Nothing is written for the discriminator itself; pair
// with NewHiddenPrefix or a preceding field when the wire form carries one.
func NewUnion[T any](variants []Codec[T], fromValue func(value T) int, fromBytes func(src []byte, offset int) int) Codec[T] {
	kinds := make([]string, len(variants))
	for i := range variants {
		kinds[i] = strconv.Itoa(i)
	}
	pick := func(index int, value any) (Codec[T], error) {
		if index < 0 || index >= len(variants) {
			return Codec[T]{}, &VariantError{Value: value, Index: index, Kinds: kinds}
		}
		return variants[index], nil
	}
	enc := NewVariableSizeEncoder(
		func(value T) (int, error) {
			variant, err := pick(fromValue(value), value)
			if err != nil {
				return 0, err
			}
			return variant.SizeOf(value)
		},
		func(value T, dst []byte, offset int) (int, error) {
			variant, err := pick(fromValue(value), value)
			if err != nil {
				return 0, err
			}
			return variant.Write(value, dst, offset)
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (T, int, error) {
		variant, err := pick(fromBytes(src, offset), nil)
		if err != nil {
			var zero T
			return zero, 0, err
		}
		return variant.Read(src, offset)
	})
	return NewCodec(enc, dec)
}

// DiscriminatedVariant is one arm of a discriminated union codec.
type DiscriminatedVariant[T any] struct {
	kind    string
	matches func(value T) bool
	sizeOf  func(value T) (int, error)
	write   func(value T, dst []byte, offset int) (int, error)
	read    func(src []byte, offset int) (T, int, error)
}

// Kind returns the variant's declared name.
func (v DiscriminatedVariant[T]) Kind() string {
	return v.kind
}

// NewVariant declares a discriminated-union arm for values of concrete
// type V carried as the union type T. unwrap reports whether a union value
// belongs to this arm; wrap lifts a decoded value back into the union.
func NewVariant[T, V any](kind string, codec Codec[V], wrap func(V) T, unwrap func(T) (V, bool)) DiscriminatedVariant[T] {
	return DiscriminatedVariant[T]{
		kind: kind,
		matches: func(value T) bool {
			_, ok := unwrap(value)
			return ok
		},
		sizeOf: func(value T) (int, error) {
			v, ok := unwrap(value)
			if !ok {
				return 0, &VariantError{Value: value, Index: -1, Kinds: []string{kind}}
			}
			return codec.SizeOf(v)
		},
		write: func(value T, dst []byte, offset int) (int, error) {
			v, ok := unwrap(value)
			if !ok {
				return 0, &VariantError{Value: value, Index: -1, Kinds: []string{kind}}
			}
			return codec.Write(v, dst, offset)
		},
		read: func(src []byte, offset int) (T, int, error) {
			v, next, err := codec.Read(src, offset)
			if err != nil {
				var zero T
				return zero, 0, err
			}
			return wrap(v), next, nil
		},
	}
}

// NewDiscriminatedUnion returns a codec that writes the matched variant's
// position through the discriminator codec, then the variant's encoding.
// Encoding a value no variant claims fails with a VariantError naming the
// valid kinds.
func NewDiscriminatedUnion[T any](discriminator Codec[int], variants ...DiscriminatedVariant[T]) Codec[T] {
	kinds := make([]string, len(variants))
	for i, v := range variants {
		kinds[i] = v.kind
	}
	indexOf := func(value T) (int, error) {
		for i, v := range variants {
			if v.matches(value) {
				return i, nil
			}
		}
		return 0, &VariantError{Value: value, Index: -1, Kinds: kinds}
	}
	enc := NewVariableSizeEncoder(
		func(value T) (int, error) {
			index, err := indexOf(value)
			if err != nil {
				return 0, err
			}
			prefix, err := discriminator.SizeOf(index)
			if err != nil {
				return 0, err
			}
			size, err := variants[index].sizeOf(value)
			if err != nil {
				return 0, err
			}
			return prefix + size, nil
		},
		func(value T, dst []byte, offset int) (int, error) {
			index, err := indexOf(value)
			if err != nil {
				return 0, err
			}
			if offset, err = discriminator.Write(index, dst, offset); err != nil {
				return 0, err
			}
			return variants[index].write(value, dst, offset)
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (T, int, error) {
		index, offset, err := discriminator.Read(src, offset)
		if err != nil {
			var zero T
			return zero, 0, err
		}
		if index < 0 || index >= len(variants) {
			var zero T
			return zero, 0, &VariantError{Index: index, Kinds: kinds}
		}
		return variants[index].read(src, offset)
	})
	return NewCodec(enc, dec)
}
