package codec

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// NewMap returns a codec for a count-prefixed sequence of key-value pairs.
// Entries encode in ascending key order so the output is deterministic.
func NewMap[K constraints.Ordered, V any](count Codec[int], key Codec[K], value Codec[V]) Codec[map[K]V] {
	sortedKeys := func(m map[K]V) []K {
		keys := make([]K, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return keys
	}
	enc := NewVariableSizeEncoder(
		func(m map[K]V) (int, error) {
			size, err := count.SizeOf(len(m))
			if err != nil {
				return 0, err
			}
			for k, v := range m {
				n, err := key.SizeOf(k)
				if err != nil {
					return 0, err
				}
				size += n
				if n, err = value.SizeOf(v); err != nil {
					return 0, err
				}
				size += n
			}
			return size, nil
		},
		func(m map[K]V, dst []byte, offset int) (int, error) {
			offset, err := count.Write(len(m), dst, offset)
			if err != nil {
				return 0, err
			}
			for _, k := range sortedKeys(m) {
				if offset, err = key.Write(k, dst, offset); err != nil {
					return 0, err
				}
				if offset, err = value.Write(m[k], dst, offset); err != nil {
					return 0, err
				}
			}
			return offset, nil
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (map[K]V, int, error) {
		length, offset, err := count.Read(src, offset)
		if err != nil {
			return nil, 0, err
		}
		m := make(map[K]V, min(length, 1024))
		for i := 0; i < length; i++ {
			var k K
			if k, offset, err = key.Read(src, offset); err != nil {
				return nil, 0, err
			}
			var v V
			if v, offset, err = value.Read(src, offset); err != nil {
				return nil, 0, err
			}
			m[k] = v
		}
		return m, offset, nil
	})
	return NewCodec(enc, dec)
}

// NewSet returns a codec for a count-prefixed sequence of unique values,
// encoded in ascending order.
func NewSet[T constraints.Ordered](count Codec[int], item Codec[T]) Codec[map[T]struct{}] {
	enc := NewVariableSizeEncoder(
		func(set map[T]struct{}) (int, error) {
			size, err := count.SizeOf(len(set))
			if err != nil {
				return 0, err
			}
			if fixed, ok := item.FixedSize(); ok {
				return size + fixed*len(set), nil
			}
			for v := range set {
				n, err := item.SizeOf(v)
				if err != nil {
					return 0, err
				}
				size += n
			}
			return size, nil
		},
		func(set map[T]struct{}, dst []byte, offset int) (int, error) {
			offset, err := count.Write(len(set), dst, offset)
			if err != nil {
				return 0, err
			}
			values := make([]T, 0, len(set))
			for v := range set {
				values = append(values, v)
			}
			slices.Sort(values)
			for _, v := range values {
				if offset, err = item.Write(v, dst, offset); err != nil {
					return 0, err
				}
			}
			return offset, nil
		},
	)
	dec := NewVariableSizeDecoder(func(src []byte, offset int) (map[T]struct{}, int, error) {
		length, offset, err := count.Read(src, offset)
		if err != nil {
			return nil, 0, err
		}
		set := make(map[T]struct{}, min(length, 1024))
		for i := 0; i < length; i++ {
			var v T
			if v, offset, err = item.Read(src, offset); err != nil {
				return nil, 0, err
			}
			set[v] = struct{}{}
		}
		return set, offset, nil
	})
	return NewCodec(enc, dec)
}
