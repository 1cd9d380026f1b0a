package bytecodec

import (
	"testing"

	"github.com/colpack/colpack/errs"
	"github.com/stretchr/testify/require"
)

func TestCodecs_RoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	for _, alg := range []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmS2, AlgorithmLZ4} {
		codec, err := ForAlgorithm(alg)
		require.NoError(t, err)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, data, decompressed)
	}
}

func TestForAlgorithm_Invalid(t *testing.T) {
	_, err := ForAlgorithm(Algorithm(255))
	require.ErrorIs(t, err, errs.ErrByteCompressionInvalid)
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmZstd, AlgorithmS2, AlgorithmLZ4} {
		codec, err := ForAlgorithm(alg)
		require.NoError(t, err)

		decompressed, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}
