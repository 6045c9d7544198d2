package rmp

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeUint reads a full uint value (marker + payload) from r.
func decodeUint(t *testing.T, r ByteReader) uint64 {
	t.Helper()
	m, err := ReadMarker(r)
	require.NoError(t, err)
	switch {
	case m.IsFixPos():
		return uint64(m)
	case m == Uint8:
		v, err := ReadUint8(r)
		require.NoError(t, err)
		return uint64(v)
	case m == Uint16:
		v, err := ReadUint16(r)
		require.NoError(t, err)
		return uint64(v)
	case m == Uint32:
		v, err := ReadUint32(r)
		require.NoError(t, err)
		return uint64(v)
	case m == Uint64:
		v, err := ReadUint64(r)
		require.NoError(t, err)
		return v
	default:
		t.Fatalf("unexpected marker 0x%02x for uint", byte(m))
		return 0
	}
}

// decodeInt reads a full int value (marker + payload) from r.
func decodeInt(t *testing.T, r ByteReader) int64 {
	t.Helper()
	m, err := ReadMarker(r)
	require.NoError(t, err)
	switch {
	case m.IsFixPos():
		return int64(m)
	case m.IsFixNeg():
		return int64(int8(m))
	case m == Int8:
		v, err := ReadInt8(r)
		require.NoError(t, err)
		return int64(v)
	case m == Int16:
		v, err := ReadInt16(r)
		require.NoError(t, err)
		return int64(v)
	case m == Int32:
		v, err := ReadInt32(r)
		require.NoError(t, err)
		return int64(v)
	case m == Int64:
		v, err := ReadInt64(r)
		require.NoError(t, err)
		return v
	default:
		t.Fatalf("unexpected marker 0x%02x for int", byte(m))
		return 0
	}
}

func TestWriteUintSmallestEncoding(t *testing.T) {
	cases := []struct {
		v        uint64
		wantSize int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{255, 2},
		{256, 3},
		{65535, 3},
		{65536, 5},
		{1<<32 - 1, 5},
		{1 << 32, 9},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		n, err := WriteUint(&buf, c.v)
		require.NoError(t, err)
		require.Equal(t, c.wantSize, n)
		require.Equal(t, c.wantSize, buf.Len())

		got := decodeUint(t, AsByteReader(&buf))
		require.Equal(t, c.v, got)
	}
}

func TestWriteIntRoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 32, -32, 127, -33, -128,
		128, 255, -129, 256, 32767, -32768,
		65535, math.MaxInt32, math.MinInt32,
		1 << 40, -(1 << 40), math.MaxInt64, math.MinInt64,
	}
	for _, v := range values {
		var buf bytes.Buffer
		_, err := WriteInt(&buf, v)
		require.NoError(t, err)

		got := decodeInt(t, AsByteReader(&buf))
		require.Equal(t, v, got, "round trip of %d", v)
	}
}

func TestWriteStrHeaderSmallestEncoding(t *testing.T) {
	cases := []struct {
		n        int
		wantSize int
	}{
		{0, 1},
		{31, 1},
		{32, 2},
		{255, 2},
		{256, 3},
		{65535, 3},
		{65536, 5},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		n, err := WriteStrHeader(&buf, c.n)
		require.NoError(t, err)
		require.Equal(t, c.wantSize, n)

		r := AsByteReader(&buf)
		m, err := ReadMarker(r)
		require.NoError(t, err)
		got, err := StrLen(r, m)
		require.NoError(t, err)
		require.Equal(t, c.n, got)
	}
}

func TestWriteExtHeaderFixext(t *testing.T) {
	cases := []struct {
		n         int
		wantTotal int // marker + any length bytes + tag byte
	}{
		{1, 2},
		{2, 2},
		{4, 2},
		{8, 2},
		{16, 2},
		{3, 3},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		n, err := WriteExtHeader(&buf, 5, c.n)
		require.NoError(t, err)
		require.Equal(t, c.wantTotal, n)

		r := AsByteReader(&buf)
		m, err := ReadMarker(r)
		require.NoError(t, err)
		tag, length, err := ExtHeader(r, m)
		require.NoError(t, err)
		require.Equal(t, int8(5), tag)
		require.Equal(t, c.n, length)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	for _, f := range []float32{0, 1.5, -1.5, float32(math.Pi)} {
		var buf bytes.Buffer
		_, err := WriteFloat32(&buf, f)
		require.NoError(t, err)
		r := AsByteReader(&buf)
		m, err := ReadMarker(r)
		require.NoError(t, err)
		require.Equal(t, Float32, m)
		got, err := ReadFloat32(r)
		require.NoError(t, err)
		require.Equal(t, f, got)
	}

	for _, f := range []float64{0, 1.5, -1.5, math.Pi} {
		var buf bytes.Buffer
		_, err := WriteFloat64(&buf, f)
		require.NoError(t, err)
		r := AsByteReader(&buf)
		m, err := ReadMarker(r)
		require.NoError(t, err)
		require.Equal(t, Float64, m)
		got, err := ReadFloat64(r)
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
}

func TestReservedMarkerIsDistinct(t *testing.T) {
	require.Equal(t, KindReserved, Reserved.Kind())
	require.NotEqual(t, Nil, Reserved)
}
