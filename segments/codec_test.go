package segments

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestFlag_BinaryRoundTrip(t *testing.T) {
	in := NewFlag("L1:DCH-BAD_ALIGNMENT:1",
		MustFromPairs([2]float64{1126051217, 1126051230.5}, [2]float64{1126052000, 1126052010}),
		MustFromPairs([2]float64{1126051200, 1126137600}),
	)

	data, err := in.MarshalBinary()
	require.NoError(t, err)

	var out Flag
	require.NoError(t, out.UnmarshalBinary(data))
	assert.True(t, in.Equal(&out), "got %+v", out)
}

func TestFlag_UnmarshalBinary_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	var iv []byte
	iv = protowire.AppendTag(iv, fieldStart, protowire.Fixed64Type)
	iv = protowire.AppendFixed64(iv, math.Float64bits(3))
	iv = protowire.AppendTag(iv, 7, protowire.BytesType)
	iv = protowire.AppendString(iv, "ignored")
	iv = protowire.AppendTag(iv, fieldEnd, protowire.Fixed64Type)
	iv = protowire.AppendFixed64(iv, math.Float64bits(4))
	b = protowire.AppendTag(b, fieldActive, protowire.BytesType)
	b = protowire.AppendBytes(b, iv)

	var f Flag
	require.NoError(t, f.UnmarshalBinary(b))
	assert.Equal(t, pairs([2]float64{3, 4}), f.Active.Pairs())
	assert.True(t, f.Known.IsEmpty())
	assert.Empty(t, f.Name)
}

func TestFlag_UnmarshalBinary_Errors(t *testing.T) {
	var f Flag

	// truncated length-delimited field
	truncated := protowire.AppendTag(nil, fieldName, protowire.BytesType)
	truncated = append(truncated, 10, 'a')
	assert.ErrorIs(t, f.UnmarshalBinary(truncated), ErrMalformedEncoding)

	// inverted interval
	var iv []byte
	iv = protowire.AppendTag(iv, fieldStart, protowire.Fixed64Type)
	iv = protowire.AppendFixed64(iv, math.Float64bits(10))
	iv = protowire.AppendTag(iv, fieldEnd, protowire.Fixed64Type)
	iv = protowire.AppendFixed64(iv, math.Float64bits(5))
	inverted := protowire.AppendTag(nil, fieldKnown, protowire.BytesType)
	inverted = protowire.AppendBytes(inverted, iv)
	assert.ErrorIs(t, f.UnmarshalBinary(inverted), ErrInvalidInterval)
}
