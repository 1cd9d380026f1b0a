// Package bytewidth picks the narrowest integer byte width that can hold a
// given value range, used by the compression core to choose the smallest
// residual type after a delta transform (spec §4.5).
package bytewidth

import (
	"math"

	"github.com/colpack/colpack/errs"
)

// RequiredSigned returns the narrowest signed integer width in bytes (1, 2,
// 4, or 8) whose range covers every value in [-maxAbs-1, maxAbs].
//
// Returns errs.ErrNegativeUnsigned if maxAbs is negative.
func RequiredSigned(maxAbs int64) (int, error) {
	if maxAbs < 0 {
		return 0, errs.ErrNegativeUnsigned
	}

	switch {
	case maxAbs <= math.MaxInt8:
		return 1, nil
	case maxAbs <= math.MaxInt16:
		return 2, nil
	case maxAbs <= math.MaxInt32:
		return 4, nil
	default:
		return 8, nil
	}
}

// RequiredUnsignedU64 returns the narrowest unsigned integer width in bytes
// (1, 2, 4, or 8) whose range covers maxV.
func RequiredUnsignedU64(maxV uint64) int {
	switch {
	case maxV <= math.MaxUint8:
		return 1
	case maxV <= math.MaxUint16:
		return 2
	case maxV <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}
