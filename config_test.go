package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildConfigDefaults(t *testing.T) {
	c := buildConfig(nil)
	require.Equal(t, layoutArray, c.structLayout)
	require.Equal(t, variantIdentName, c.variantIdent)
	require.False(t, c.humanReadable)
	require.Equal(t, defaultMaxDepth, c.maxDepth)
}

func TestOptionsApplyInOrder(t *testing.T) {
	c := buildConfig([]Option{WithStructMap(), WithStructTuple()})
	require.Equal(t, layoutTuple, c.structLayout, "later option should win")

	c = buildConfig([]Option{WithHumanReadable(), WithBinary()})
	require.False(t, c.humanReadable, "WithBinary should clear humanReadable")
}

func TestHumanReadableVisibleToMarshaler(t *testing.T) {
	enc := NewEncoder(&writeBuffer{}, WithHumanReadable())
	require.True(t, enc.HumanReadable())

	dec := NewDecoderBytes(nil, WithHumanReadable())
	require.True(t, dec.HumanReadable())
}
