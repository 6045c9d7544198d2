package msgpack

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type Point struct {
	X int     `msgpack:"x"`
	Y int     `msgpack:"y"`
	Z float64 `msgpack:"z,omitempty"`
}

type WithEmbed struct {
	Point
	Label string `msgpack:"label"`
}

func TestMarshalUnmarshalPrimitives(t *testing.T) {
	cases := []any{
		nil, true, false,
		int64(0), int64(-1), int64(127), int64(128), int64(-129),
		uint64(0), uint64(255), uint64(1 << 40),
		3.5, "hello, world", []byte("binary payload"),
	}
	for _, c := range cases {
		data, err := Marshal(c)
		require.NoError(t, err)

		var got any
		require.NoError(t, Unmarshal(data, &got))
		require.EqualValues(t, c, got)
	}
}

func TestMarshalUnmarshalStructArrayLayout(t *testing.T) {
	p := Point{X: 1, Y: 2, Z: 3.5}
	data, err := Marshal(p)
	require.NoError(t, err)

	var got Point
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, p, got)
}

func TestMarshalUnmarshalStructMapLayout(t *testing.T) {
	p := Point{X: 1, Y: 2, Z: 3.5}
	data, err := Marshal(p, WithStructMap())
	require.NoError(t, err)

	var got Point
	require.NoError(t, Unmarshal(data, &got, WithStructMap()))
	require.Equal(t, p, got)
}

func TestMarshalOmitEmpty(t *testing.T) {
	p := Point{X: 1, Y: 2}
	data, err := Marshal(p, WithStructMap())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, Unmarshal(data, &decoded))
	_, hasZ := decoded["z"]
	require.False(t, hasZ, "zero-value omitempty field should be absent from the map")
}

func TestMarshalUnmarshalEmbeddedStruct(t *testing.T) {
	w := WithEmbed{Point: Point{X: 5, Y: 6, Z: 7}, Label: "pt"}
	data, err := Marshal(w, WithStructMap())
	require.NoError(t, err)

	var got WithEmbed
	require.NoError(t, Unmarshal(data, &got, WithStructMap()))
	require.Equal(t, w, got)
}

func TestMarshalUnmarshalSliceAndMap(t *testing.T) {
	in := map[string][]int{"a": {1, 2, 3}, "b": {4, 5}}
	data, err := Marshal(in)
	require.NoError(t, err)

	var got map[string][]int
	require.NoError(t, Unmarshal(data, &got))
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalUnmarshalNestedStruct(t *testing.T) {
	type Line struct {
		From Point `msgpack:"from"`
		To   Point `msgpack:"to"`
	}
	l := Line{From: Point{X: 0, Y: 0}, To: Point{X: 3, Y: 4}}
	data, err := Marshal(l, WithStructMap())
	require.NoError(t, err)

	var got Line
	require.NoError(t, Unmarshal(data, &got, WithStructMap()))
	require.Equal(t, l, got)
}

func TestTrailingBytesAreIgnored(t *testing.T) {
	data, err := Marshal(int64(42))
	require.NoError(t, err)
	data = append(data, 0xc0, 0xc0) // two extra nils

	var got int64
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, int64(42), got)
}

func TestEncoderDecoderStreaming(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode("first"))
	require.NoError(t, enc.Encode(int64(2)))

	dec := NewDecoder(&buf)
	var s string
	var n int64
	require.NoError(t, dec.Decode(&s))
	require.NoError(t, dec.Decode(&n))
	require.Equal(t, "first", s)
	require.Equal(t, int64(2), n)
}
