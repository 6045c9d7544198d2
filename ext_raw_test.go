package msgpack

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtRoundTrip(t *testing.T) {
	e := Ext{Tag: 7, Data: []byte{1, 2, 3, 4}}
	data, err := Marshal(e)
	require.NoError(t, err)

	var got Ext
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, e, got)
}

func TestExtInsideStruct(t *testing.T) {
	type withExt struct {
		Name string `msgpack:"name"`
		Blob Ext    `msgpack:"blob"`
	}
	in := withExt{Name: "x", Blob: Ext{Tag: 1, Data: []byte("abc")}}
	data, err := Marshal(in, WithStructMap())
	require.NoError(t, err)

	var got withExt
	require.NoError(t, Unmarshal(data, &got, WithStructMap()))
	require.Equal(t, in, got)
}

func TestRawPassthrough(t *testing.T) {
	inner, err := Marshal(map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)

	var r Raw
	require.NoError(t, Unmarshal(inner, &r))
	require.Equal(t, inner, []byte(r))

	out, err := Marshal(r)
	require.NoError(t, err)
	require.Equal(t, inner, out)
}

func TestRawRefBorrowsFromByteSliceDecoder(t *testing.T) {
	inner, err := Marshal([]int{1, 2, 3})
	require.NoError(t, err)

	dec := NewDecoderBytes(inner)
	var r RawRef
	require.NoError(t, dec.Decode(&r))
	require.True(t, r.IsBorrowed())
	require.Equal(t, inner, r.Bytes())
}

func TestRawRefCopiesFromReaderDecoder(t *testing.T) {
	inner, err := Marshal([]int{1, 2, 3})
	require.NoError(t, err)

	dec := NewDecoder(bytes.NewReader(inner))
	var r RawRef
	require.NoError(t, dec.Decode(&r))
	require.False(t, r.IsBorrowed())
	require.Equal(t, inner, r.Bytes())
}
