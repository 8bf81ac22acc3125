package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Kind  uint8
	Count uint16
	Name  string
}

func testRecordCodec() Codec[testRecord] {
	return NewStruct(
		NewField("kind", U8(),
			func(r testRecord) uint8 { return r.Kind },
			func(r *testRecord, v uint8) { r.Kind = v },
		),
		NewField("count", U16(),
			func(r testRecord) uint16 { return r.Count },
			func(r *testRecord, v uint16) { r.Count = v },
		),
		NewField("name", NewUTF8(ShortU16Count()),
			func(r testRecord) string { return r.Name },
			func(r *testRecord, v string) { r.Name = v },
		),
	)
}

func TestStruct_RoundTrip(t *testing.T) {
	c := testRecordCodec()
	value := testRecord{Kind: 7, Count: 0x0102, Name: "hi"}

	size, err := c.SizeOf(value)
	require.NoError(t, err)
	assert.Equal(t, 6, size)

	encoded, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 0x02, 0x01, 2, 'h', 'i'}, encoded)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, value, decoded)
}

func TestStruct_FixedSize(t *testing.T) {
	type pair struct {
		A uint8
		B uint16
	}
	fixed := NewStruct(
		NewField("a", U8(),
			func(p pair) uint8 { return p.A },
			func(p *pair, v uint8) { p.A = v },
		),
		NewField("b", U16(),
			func(p pair) uint16 { return p.B },
			func(p *pair, v uint16) { p.B = v },
		),
	)

	size, ok := fixed.FixedSize()
	assert.True(t, ok)
	assert.Equal(t, 3, size)

	_, ok = testRecordCodec().FixedSize()
	assert.False(t, ok)
}

func TestStruct_TruncatedField(t *testing.T) {
	c := testRecordCodec()

	_, err := c.Decode([]byte{7, 0x02})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")

	var bounds *BoundsError
	require.True(t, errors.As(err, &bounds))
}

func TestTuple2(t *testing.T) {
	c := NewTuple2(U8(), NewUTF8(ShortU16Count()))
	value := Tuple2[uint8, string]{A: 9, B: "ok"}

	encoded, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 2, 'o', 'k'}, encoded)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, value, decoded)
}

func TestTuple3(t *testing.T) {
	c := NewTuple3(U8(), U16(), U8())
	value := Tuple3[uint8, uint16, uint8]{A: 1, B: 0x0203, C: 4}

	size, ok := c.FixedSize()
	assert.True(t, ok)
	assert.Equal(t, 4, size)

	encoded, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0x03, 0x02, 4}, encoded)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, value, decoded)
}
