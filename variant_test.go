package msgpack

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hulthe/msgpack-go/rmp"
)

type shape interface{ Union }

type circle struct {
	Radius float64 `msgpack:"radius"`
}

type square struct {
	Side float64 `msgpack:"side"`
}

type point struct{}

func init() {
	RegisterVariant[shape, circle](0, "circle")
	RegisterVariant[shape, square](1, "square")
	RegisterUnitVariant[shape, point](2, "point")
}

func TestVariantRoundTripByName(t *testing.T) {
	var s shape = circle{Radius: 2.5}
	data, err := Marshal(s)
	require.NoError(t, err)

	var got shape
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, circle{Radius: 2.5}, got)
}

func TestVariantRoundTripByIndex(t *testing.T) {
	var s shape = square{Side: 4}
	data, err := Marshal(s, WithVariantIndex())
	require.NoError(t, err)

	var got shape
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, square{Side: 4}, got)
}

func TestVariantDecodeAcceptsEitherTagForm(t *testing.T) {
	byName, err := Marshal(shape(circle{Radius: 1}))
	require.NoError(t, err)
	byIndex, err := Marshal(shape(circle{Radius: 1}), WithVariantIndex())
	require.NoError(t, err)

	var a, b shape
	require.NoError(t, Unmarshal(byName, &a))
	require.NoError(t, Unmarshal(byIndex, &b))
	require.Equal(t, a, b)
}

func TestVariantUnknownIndexErrors(t *testing.T) {
	var buf writeBuffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.EncodeMapHeader(1))
	require.NoError(t, enc.EncodeUint(99))
	require.NoError(t, enc.EncodeString("unused"))

	var got shape
	err := Unmarshal(buf.bytes, &got)
	require.Error(t, err)
}

func TestVariantUnitRoundTripByName(t *testing.T) {
	var s shape = point{}
	data, err := Marshal(s)
	require.NoError(t, err)

	var got shape
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, point{}, got)
}

func TestVariantUnitRoundTripByIndex(t *testing.T) {
	var s shape = point{}
	data, err := Marshal(s, WithVariantIndex())
	require.NoError(t, err)

	var got shape
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, point{}, got)
}

func TestVariantUnitIsBareIdentNotContainer(t *testing.T) {
	data, err := Marshal(shape(point{}))
	require.NoError(t, err)

	dec := NewDecoder(bytes.NewReader(data))
	m, err := dec.peekMarker()
	require.NoError(t, err)
	require.Equal(t, rmp.KindStr, m.Kind())
}

func TestVariantArrayOfOneFallbackDecodes(t *testing.T) {
	var buf writeBuffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.EncodeArrayHeader(1))
	require.NoError(t, enc.EncodeString("circle"))
	require.NoError(t, enc.encodeStruct(reflect.ValueOf(circle{Radius: 3})))

	var got shape
	require.NoError(t, Unmarshal(buf.bytes, &got))
	require.Equal(t, circle{Radius: 3}, got)
}
