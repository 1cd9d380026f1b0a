package section

import (
	"fmt"

	"github.com/colpack/colpack/bytecodec"
	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/numeric"
)

// DetailBytesSize is the fixed size of a column header's detail_bytes field.
const DetailBytesSize = 32

// byteCompressionAlgoOffset is the trailing byte reserved for the
// supplemental byte-compression algorithm selector (§3 of the expanded
// spec). The mode/residual/reference-value fields never grow past
// 6+bytes_per_value (14 bytes at the widest, 8-byte reference), leaving
// this offset free for every declared width.
const byteCompressionAlgoOffset = DetailBytesSize - 1

// hasReferenceOffset records whether a reference value follows the 5-byte
// transform header. compress.go's bypass cases (an array already at its
// kind's minimum width, or a single-element array under element-wise mode)
// return no reference value at all, so the on-disk layout can't assume one
// is always present even when use_compression is set.
const hasReferenceOffset = DetailBytesSize - 2

// Detail decodes and encodes a column's detail_bytes: the compression mode,
// residual kind/width, reference value, rounding decimal count, and
// (if enabled) the supplemental byte-compression algorithm.
//
// The reference value's own kind and width are recorded alongside it (bytes
// 3 and 4), independently of the column's declared kind/bytes_per_value
// (open question #1): a rounded column compresses in the int64 domain, so
// its reference value's kind (int) and width (8) can disagree with the
// column's declared kind (float) and width. For every non-rounded column
// the two happen to coincide, since compression then runs over the
// declared type directly.
type Detail struct {
	CompressionEnabled bool
	Mode               numeric.Mode
	ResidualKind       kind.Code
	ResidualWidth      int
	HasReference       bool
	ReferenceValue     numeric.Scalar
	RoundingEnabled    bool
	Decimals           uint8

	UseByteCompression  bool
	ByteCompressionAlgo bytecodec.Algorithm
}

// Bytes encodes d into a DetailBytesSize-byte record. refWidth is the
// reference value's own per-value width in bytes (ReferenceValue.Bits()/8),
// which is the column's declared bytes_per_value for every non-rounded
// column and 8 (int64) for a rounded one; it determines how many bytes the
// reference value occupies when HasReference is set.
func (d Detail) Bytes(refWidth int) ([32]byte, error) {
	var out [DetailBytesSize]byte

	if !d.CompressionEnabled {
		if d.RoundingEnabled {
			out[0] = d.Decimals
		}
		if d.UseByteCompression {
			out[byteCompressionAlgoOffset] = byte(d.ByteCompressionAlgo)
		}
		return out, nil
	}

	out[0] = byte(d.Mode)
	out[1] = byte(d.ResidualWidth)
	out[2] = byte(d.ResidualKind)
	out[3] = byte(refWidth)

	decimalsOffset := 5
	if d.HasReference {
		out[hasReferenceOffset] = 1

		refBytes := d.ReferenceValue.Bytes()
		if len(refBytes) != refWidth {
			return out, fmt.Errorf("%w: reference value is %d bytes, expected %d",
				errs.ErrUnsupportedSize, len(refBytes), refWidth)
		}
		if 5+refWidth > hasReferenceOffset {
			return out, fmt.Errorf("%w: reference width=%d leaves no room for detail bytes", errs.ErrUnsupportedSize, refWidth)
		}

		out[4] = byte(d.ReferenceValue.Kind())
		copy(out[5:5+refWidth], refBytes)
		decimalsOffset = 5 + refWidth
	}

	if d.RoundingEnabled {
		out[decimalsOffset] = d.Decimals
	}
	if d.UseByteCompression {
		out[byteCompressionAlgoOffset] = byte(d.ByteCompressionAlgo)
	}

	return out, nil
}

// ParseDetail decodes a Detail record. The reference value's own kind and
// width are read from bytes 4 and 3, not assumed from the column's declared
// type, since rounding makes the two disagree.
func ParseDetail(data []byte, compressionEnabled, roundingEnabled, useByteCompression bool) (Detail, error) {
	if len(data) != DetailBytesSize {
		return Detail{}, fmt.Errorf("%w: detail bytes", errs.ErrInvalidHeaderSize)
	}

	var d Detail
	d.CompressionEnabled = compressionEnabled
	d.RoundingEnabled = roundingEnabled
	d.UseByteCompression = useByteCompression
	if useByteCompression {
		d.ByteCompressionAlgo = bytecodec.Algorithm(data[byteCompressionAlgoOffset])
	}

	if !compressionEnabled {
		if roundingEnabled {
			d.Decimals = data[0]
		}
		return d, nil
	}

	d.Mode = numeric.Mode(data[0])
	d.ResidualWidth = int(data[1])
	d.ResidualKind = kind.Code(data[2])
	d.HasReference = data[hasReferenceOffset] == 1

	decimalsOffset := 5
	if d.HasReference {
		refWidth := int(data[3])
		refKind := kind.Code(data[4])

		refBytes := data[5 : 5+refWidth]
		refArray, err := numeric.FromBytes(refKind, refWidth*8, refBytes)
		if err != nil {
			return Detail{}, fmt.Errorf("reference value: %w", err)
		}
		d.ReferenceValue = numeric.NewScalar(refArray)
		decimalsOffset = 5 + refWidth
	}

	if roundingEnabled {
		d.Decimals = data[decimalsOffset]
	}

	return d, nil
}
