package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildNested returns the MessagePack encoding of n levels of single-element
// nested arrays, e.g. n=2 -> [[1]].
func buildNested(t *testing.T, n int) []byte {
	t.Helper()
	var v any = int64(1)
	for range n {
		v = []any{v}
	}
	data, err := Marshal(v)
	require.NoError(t, err)
	return data
}

func TestDepthLimitExceeded(t *testing.T) {
	data := buildNested(t, defaultMaxDepth+1)

	var got any
	err := Unmarshal(data, &got)
	require.Error(t, err)
	var depthErr *DepthLimitExceededError
	require.ErrorAs(t, err, &depthErr)
}

func TestDepthWithinLimitSucceeds(t *testing.T) {
	data := buildNested(t, defaultMaxDepth-1)

	var got any
	require.NoError(t, Unmarshal(data, &got))
}

func TestWithMaxDepthOverride(t *testing.T) {
	data := buildNested(t, 5)

	var got any
	err := Unmarshal(data, &got, WithMaxDepth(3))
	require.Error(t, err)
	var depthErr *DepthLimitExceededError
	require.ErrorAs(t, err, &depthErr)
}

func TestWithMaxDepthZeroDisablesLimit(t *testing.T) {
	data := buildNested(t, defaultMaxDepth+50)

	var got any
	require.NoError(t, Unmarshal(data, &got, WithMaxDepth(0)))
}

func TestReservedMarkerRejectedByDecoder(t *testing.T) {
	data := []byte{0xc1}

	var got any
	err := Unmarshal(data, &got)
	require.ErrorIs(t, err, ErrReserved)
}
