package codec

// NewUTF8 returns a codec for a count-prefixed UTF-8 string.
func NewUTF8(count Codec[int]) Codec[string] {
	return NewTransform(
		NewBytes(count),
		func(value string) []byte {
			return []byte(value)
		},
		func(value []byte) string {
			return string(value)
		},
	)
}

// NewFixedUTF8 returns a codec for a UTF-8 string occupying exactly size
// bytes, with no length prefix.
func NewFixedUTF8(size int) Codec[string] {
	return NewTransform(
		NewFixedBytes(size),
		func(value string) []byte {
			return []byte(value)
		},
		func(value []byte) string {
			return string(value)
		},
	)
}
