package codec

// Tuple2 is an ordered pair of heterogeneous values.
type Tuple2[A, B any] struct {
	A A
	B B
}

// NewTuple2 returns a codec encoding both elements back to back.
func NewTuple2[A, B any](a Codec[A], b Codec[B]) Codec[Tuple2[A, B]] {
	return NewStruct(
		NewField("0", a,
			func(t Tuple2[A, B]) A { return t.A },
			func(t *Tuple2[A, B], v A) { t.A = v },
		),
		NewField("1", b,
			func(t Tuple2[A, B]) B { return t.B },
			func(t *Tuple2[A, B], v B) { t.B = v },
		),
	)
}

// Tuple3 is an ordered triple of heterogeneous values.
type Tuple3[A, B, C any] struct {
	A A
	B B
	C C
}

// NewTuple3 returns a codec encoding all three elements back to back.
func NewTuple3[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[Tuple3[A, B, C]] {
	return NewStruct(
		NewField("0", a,
			func(t Tuple3[A, B, C]) A { return t.A },
			func(t *Tuple3[A, B, C], v A) { t.A = v },
		),
		NewField("1", b,
			func(t Tuple3[A, B, C]) B { return t.B },
			func(t *Tuple3[A, B, C], v B) { t.B = v },
		),
		NewField("2", c,
			func(t Tuple3[A, B, C]) C { return t.C },
			func(t *Tuple3[A, B, C], v C) { t.C = v },
		),
	)
}
