package section

import (
	"testing"

	"github.com/colpack/colpack/bytecodec"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/numeric"
	"github.com/stretchr/testify/require"
)

func TestDetail_RoundTrip_Compressed(t *testing.T) {
	ref := numeric.NewScalar(numeric.Int32Array{-4})

	d := Detail{
		CompressionEnabled: true,
		Mode:               numeric.ModeElementWise,
		ResidualKind:       kind.Int,
		ResidualWidth:      2,
		HasReference:       true,
		ReferenceValue:     ref,
		RoundingEnabled:    true,
		Decimals:           3,
	}

	raw, err := d.Bytes(4)
	require.NoError(t, err)
	require.Len(t, raw, DetailBytesSize)

	parsed, err := ParseDetail(raw[:], true, true, false)
	require.NoError(t, err)
	require.True(t, parsed.HasReference)
	require.Equal(t, d.Mode, parsed.Mode)
	require.Equal(t, d.ResidualKind, parsed.ResidualKind)
	require.Equal(t, d.ResidualWidth, parsed.ResidualWidth)
	require.Equal(t, d.Decimals, parsed.Decimals)

	refOut, err := parsed.ReferenceValue.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(-4), refOut)
}

func TestDetail_RoundTrip_NoCompression(t *testing.T) {
	d := Detail{RoundingEnabled: true, Decimals: 2}
	raw, err := d.Bytes(4)
	require.NoError(t, err)

	parsed, err := ParseDetail(raw[:], false, true, false)
	require.NoError(t, err)
	require.Equal(t, uint8(2), parsed.Decimals)
}

func TestDetail_RoundTrip_ByteCompression(t *testing.T) {
	d := Detail{UseByteCompression: true, ByteCompressionAlgo: bytecodec.AlgorithmZstd}
	raw, err := d.Bytes(4)
	require.NoError(t, err)

	parsed, err := ParseDetail(raw[:], false, false, true)
	require.NoError(t, err)
	require.Equal(t, bytecodec.AlgorithmZstd, parsed.ByteCompressionAlgo)
}

func TestDetail_Bypass_NoReference(t *testing.T) {
	d := Detail{CompressionEnabled: true, Mode: numeric.ModeElementWise, ResidualKind: kind.Uint, ResidualWidth: 4}
	raw, err := d.Bytes(4)
	require.NoError(t, err)

	parsed, err := ParseDetail(raw[:], true, false, false)
	require.NoError(t, err)
	require.False(t, parsed.HasReference)
}

func TestDetail_RoundTrip_RoundedReferenceWidthDiffersFromDeclared(t *testing.T) {
	// A rounded float32 column (declared width 4) compresses in the int64
	// domain, so its reference value is 8 bytes wide, not 4.
	ref := numeric.NewScalar(numeric.Int64Array{-150})

	d := Detail{
		CompressionEnabled: true,
		Mode:               numeric.ModeMinimumOffset,
		ResidualKind:       kind.Uint,
		ResidualWidth:      1,
		HasReference:       true,
		ReferenceValue:     ref,
		RoundingEnabled:    true,
		Decimals:           2,
	}

	raw, err := d.Bytes(8)
	require.NoError(t, err)

	parsed, err := ParseDetail(raw[:], true, true, false)
	require.NoError(t, err)
	require.True(t, parsed.HasReference)
	require.Equal(t, kind.Int, parsed.ReferenceValue.Kind())

	refOut, err := parsed.ReferenceValue.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(-150), refOut)
	require.Equal(t, uint8(2), parsed.Decimals)
}
