package numeric

import (
	"fmt"
	"math"

	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
)

// RoundToFixed implements the fixed-point rounder (spec §4.4): every
// element is multiplied by 10^decimals, rounded half-to-even (matching the
// reference implementation's reliance on numpy's around), and cast to a
// 64-bit signed integer. The scale-up is never undone here; a column
// compresses this int64 array directly, and UnroundFixed reverses the
// scaling only after decompression.
//
// Integer-kind arrays pass through unchanged: they are already exact at
// any decimals >= 0.
//
// decimals must be >= 0.
func RoundToFixed(a Array, decimals int) (Array, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrNegativeDecimals, decimals)
	}

	var values []float64
	switch v := a.(type) {
	case Float64Array:
		values = []float64(v)
	case Float32Array:
		values = make([]float64, len(v))
		for i, x := range v {
			values[i] = float64(x)
		}
	case float16Array:
		values = make([]float64, len(v))
		for i, x := range v {
			values[i] = float64(float16ToFloat32(x))
		}
	default:
		// Integer kinds are already exact at any decimals >= 0.
		return a, nil
	}

	scale := math.Pow(10, float64(decimals))

	out := make(Int64Array, len(values))
	for i, x := range values {
		scaled := roundHalfToEven(x * scale)
		if math.IsNaN(scaled) || math.IsInf(scaled, 0) || scaled > math.MaxInt64 || scaled < math.MinInt64 {
			return nil, fmt.Errorf("%w: element %d (%v) out of int64 range after scaling", errs.ErrExceedsI64, i, scaled)
		}
		out[i] = int64(scaled)
	}

	return out, nil
}

// UnroundFixed reverses RoundToFixed: divides every element of a (an
// Int64Array, the shape Decompress reconstructs for a rounded column) by
// 10^decimals and casts the result to the (k, bits) representation the
// column declared, matching the reference implementation's
// self._data /= pow(10, decimals) on decode.
func UnroundFixed(a Array, decimals int, k kind.Code, bits int) (Array, error) {
	ints, ok := a.(Int64Array)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an int64 array", errs.ErrNotInteger, a)
	}

	scale := math.Pow(10, float64(decimals))

	values := make([]float64, len(ints))
	for i, v := range ints {
		values[i] = float64(v) / scale
	}

	switch {
	case k == kind.Float && bits == 64:
		return Float64Array(values), nil
	case k == kind.Float && bits == 32:
		out := make(Float32Array, len(values))
		for i, v := range values {
			out[i] = float32(v)
		}
		return out, nil
	case k == kind.Float && bits == 16:
		out := make(float16Array, len(values))
		for i, v := range values {
			out[i] = float32ToFloat16(float32(v))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: kind=%q bits=%d", errs.ErrUnsupportedKind, byte(k), bits)
	}
}

func roundHalfToEven(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.RoundToEven(v)
}
