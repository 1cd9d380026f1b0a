package numeric

import (
	"testing"

	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
	"github.com/stretchr/testify/require"
)

// S1: compress([1,2,3,4] as u32, 'e') -> residual [1,1,1] of width 1 byte,
// reference 1; decompress -> [1,2,3,4].
func TestCompress_ElementWise_Uint32(t *testing.T) {
	a := Uint32Array{1, 2, 3, 4}
	res, err := Compress(a, ModeElementWise)
	require.NoError(t, err)
	require.True(t, res.HasReference)
	require.Equal(t, Uint8Array{1, 1, 1}, res.Residual)

	ref, err := res.ReferenceValue.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1), ref)

	out, err := Decompress(res.Residual, ModeElementWise, res.ReferenceValue, res.HasReference, kind.Uint, 32)
	require.NoError(t, err)
	require.Equal(t, Uint32Array{1, 2, 3, 4}, out)
}

// S2: compress([-4,-2,0,2000] as i16, 'e') -> residual [2,2,2000] of width 2
// bytes, reference -4; decompress -> [-4,-2,0,2000].
func TestCompress_ElementWise_Int16(t *testing.T) {
	a := Int16Array{-4, -2, 0, 2000}
	res, err := Compress(a, ModeElementWise)
	require.NoError(t, err)
	require.True(t, res.HasReference)
	require.Equal(t, Uint16Array{2, 2, 2000}, res.Residual)

	ref, err := res.ReferenceValue.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(-4), ref)

	out, err := Decompress(res.Residual, ModeElementWise, res.ReferenceValue, res.HasReference, kind.Int, 16)
	require.NoError(t, err)
	require.Equal(t, Int16Array{-4, -2, 0, 2000}, out)
}

// S3: compress([5.2,0.8,3.1415,8.0] as f64, 'm') -> residual kind f,
// reference 0.8; element 1 of residual is 0.0.
func TestCompress_MinimumOffset_Float64(t *testing.T) {
	a := Float64Array{5.2, 0.8, 3.1415, 8.0}
	res, err := Compress(a, ModeMinimumOffset)
	require.NoError(t, err)
	require.True(t, res.HasReference)
	require.Equal(t, kind.Float, res.Residual.Kind())

	ref, err := res.ReferenceValue.Float64()
	require.NoError(t, err)
	require.InDelta(t, 0.8, ref, 1e-9)

	residualValues := res.Residual.Interface().([]float64)
	require.InDelta(t, 0.0, residualValues[1], 1e-6)

	out, err := Decompress(res.Residual, ModeMinimumOffset, res.ReferenceValue, res.HasReference, kind.Float, 64)
	require.NoError(t, err)
	outValues := out.(Float64Array)
	for i, want := range a {
		require.InDelta(t, want, outValues[i], 1e-3)
	}
}

func TestCompress_BypassMinimalWidth(t *testing.T) {
	a := Int8Array{1, 2, 3}
	res, err := Compress(a, ModeElementWise)
	require.NoError(t, err)
	require.False(t, res.HasReference)
	require.Equal(t, a, res.Residual)
}

func TestCompress_BypassSingleElement(t *testing.T) {
	a := Int32Array{42}
	res, err := Compress(a, ModeElementWise)
	require.NoError(t, err)
	require.False(t, res.HasReference)
	require.Equal(t, a, res.Residual)
}

type stringKindArray struct{}

func (stringKindArray) Kind() kind.Code  { return kind.String }
func (stringKindArray) Bits() int        { return 32 }
func (stringKindArray) Len() int         { return 0 }
func (stringKindArray) Bytes() []byte    { return nil }
func (stringKindArray) Interface() any   { return nil }

func TestCompress_InvalidKind(t *testing.T) {
	_, err := Compress(stringKindArray{}, ModeElementWise)
	require.ErrorIs(t, err, errs.ErrCompressionKindInvalid)
}

func TestCompress_InvalidMode(t *testing.T) {
	_, err := Compress(Int32Array{1, 2, 3}, Mode('x'))
	require.ErrorIs(t, err, errs.ErrCompressionModeInvalid)
}
