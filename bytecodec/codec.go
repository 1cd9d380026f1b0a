// Package bytecodec provides optional supplemental byte compression for a
// column's residual payload, on top of the element-wise/minimum-offset
// delta transform in numeric. A column that enables byte compression
// stores its chosen Algorithm in its detail bytes, runs the residual bytes
// through the matching Codec before writing them to the data region, and
// records the compressed length in extra_bytes.
package bytecodec

import (
	"fmt"

	"github.com/colpack/colpack/errs"
)

// Algorithm identifies a byte-compression codec, recorded in a column's
// detail bytes when OptionUseByteCompression is set.
type Algorithm byte

const (
	// AlgorithmNone passes bytes through unmodified.
	AlgorithmNone Algorithm = 0
	// AlgorithmZstd uses Zstandard, favoring ratio over speed.
	AlgorithmZstd Algorithm = 1
	// AlgorithmS2 uses S2 (a Snappy derivative), favoring speed.
	AlgorithmS2 Algorithm = 2
	// AlgorithmLZ4 uses LZ4 block compression.
	AlgorithmLZ4 Algorithm = 3
)

// Compressor compresses a residual byte slice.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a residual byte slice.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor.
type Codec interface {
	Compressor
	Decompressor
}

// ForAlgorithm returns the Codec for a, or errs.ErrByteCompressionInvalid if
// a names no known algorithm.
func ForAlgorithm(a Algorithm) (Codec, error) {
	switch a {
	case AlgorithmNone:
		return NoOpCodec{}, nil
	case AlgorithmZstd:
		return ZstdCodec{}, nil
	case AlgorithmS2:
		return S2Codec{}, nil
	case AlgorithmLZ4:
		return LZ4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: algorithm=%d", errs.ErrByteCompressionInvalid, byte(a))
	}
}
