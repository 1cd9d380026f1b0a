package column

import (
	"testing"

	"github.com/colpack/colpack/bytecodec"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/numeric"
	"github.com/stretchr/testify/require"
)

func TestColumn_RoundTrip_Uncompressed(t *testing.T) {
	values := numeric.Uint32Array{1, 2, 3, 4}
	c, err := New("price", false, kind.Uint, 4, values)
	require.NoError(t, err)

	def, err := c.Definition()
	require.NoError(t, err)
	require.Equal(t, "price", def.Identifier)
	require.False(t, def.Options.UseCompression())

	payload, err := c.PayloadBytes()
	require.NoError(t, err)

	decoded, err := FromDefinition(def)
	require.NoError(t, err)
	require.NoError(t, decoded.LoadPayload(payload))
	require.Equal(t, values, decoded.Values())
}

func TestColumn_RoundTrip_Compressed(t *testing.T) {
	values := numeric.Uint32Array{1, 2, 3, 4}
	c, err := New("counter", false, kind.Uint, 4, values)
	require.NoError(t, err)
	c.UseCompression = true
	c.CompressionMode = numeric.ModeElementWise

	def, err := c.Definition()
	require.NoError(t, err)
	require.True(t, def.Options.UseCompression())

	payload, err := c.PayloadBytes()
	require.NoError(t, err)

	decoded, err := FromDefinition(def)
	require.NoError(t, err)
	require.NoError(t, decoded.LoadPayload(payload))
	require.Equal(t, values, decoded.Values())
}

func TestColumn_RoundTrip_MinimumOffset(t *testing.T) {
	values := numeric.Uint32Array{10, 20, 30, 40, 50, 60, 70, 80}
	c, err := New("big", false, kind.Uint, 4, values)
	require.NoError(t, err)
	c.UseCompression = true
	c.CompressionMode = numeric.ModeMinimumOffset

	def, err := c.Definition()
	require.NoError(t, err)

	payload, err := c.PayloadBytes()
	require.NoError(t, err)

	decoded, err := FromDefinition(def)
	require.NoError(t, err)
	require.NoError(t, decoded.LoadPayload(payload))
	require.Equal(t, values, decoded.Values())
}

func TestColumn_RoundTrip_ByteCompressed(t *testing.T) {
	values := numeric.Uint32Array{10, 20, 30, 40, 50, 60, 70, 80}
	c, err := New("big", false, kind.Uint, 4, values)
	require.NoError(t, err)
	c.UseCompression = true
	c.CompressionMode = numeric.ModeMinimumOffset
	c.UseByteCompression = true
	c.ByteCompressionAlgo = bytecodec.AlgorithmZstd

	def, err := c.Definition()
	require.NoError(t, err)
	require.True(t, def.Options.UseByteCompression())

	payload, err := c.PayloadBytes()
	require.NoError(t, err)

	decoded, err := FromDefinition(def)
	require.NoError(t, err)
	require.True(t, decoded.UseByteCompression)
	require.NoError(t, decoded.LoadPayload(payload))
	require.Equal(t, values, decoded.Values())
}

func TestColumn_MismatchedValueType(t *testing.T) {
	_, err := New("bad", false, kind.Int, 4, numeric.Uint32Array{1})
	require.Error(t, err)
}

func TestColumn_RoundTrip_RoundingOnly(t *testing.T) {
	values := numeric.Float64Array{9.99, 1.5, 3.25}
	c, err := New("price", false, kind.Float, 8, values)
	require.NoError(t, err)
	c.UseRounding = true
	c.Decimals = 2

	def, err := c.Definition()
	require.NoError(t, err)
	require.True(t, def.Options.UseFloatingPointRounding())

	payload, err := c.PayloadBytes()
	require.NoError(t, err)

	decoded, err := FromDefinition(def)
	require.NoError(t, err)
	require.NoError(t, decoded.LoadPayload(payload))
	require.Equal(t, values, decoded.Values())
}

func TestColumn_RoundTrip_RoundingAndCompression(t *testing.T) {
	values := numeric.Float64Array{9.99, 10.01, 10.02, 9.50}
	c, err := New("price", false, kind.Float, 8, values)
	require.NoError(t, err)
	c.UseRounding = true
	c.Decimals = 2
	c.UseCompression = true
	c.CompressionMode = numeric.ModeElementWise

	def, err := c.Definition()
	require.NoError(t, err)
	require.True(t, def.Options.UseFloatingPointRounding())
	require.True(t, def.Options.UseCompression())

	// Rounding before compression should let the residual narrow to an
	// integer kind, not the much wider float residual compressFloat would
	// otherwise produce.
	require.Equal(t, kind.Int, kind.Code(def.DetailRaw[2]))

	payload, err := c.PayloadBytes()
	require.NoError(t, err)

	decoded, err := FromDefinition(def)
	require.NoError(t, err)
	require.NoError(t, decoded.LoadPayload(payload))
	require.Equal(t, values, decoded.Values())
}
