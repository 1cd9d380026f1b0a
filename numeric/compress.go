package numeric

import (
	"fmt"

	"github.com/colpack/colpack/bytewidth"
	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/internal/pool"
	"github.com/colpack/colpack/kind"
)

// Mode selects which delta transform Compress applies.
type Mode byte

const (
	// ModeElementWise ('e') records pairwise differences against the
	// previous element, with the first element as the reference value.
	ModeElementWise Mode = 'e'
	// ModeMinimumOffset ('m') records each element's offset from the
	// array's minimum, which becomes the reference value.
	ModeMinimumOffset Mode = 'm'
)

// Scalar holds a single value together with the kind/width it should be
// encoded as, i.e. a column's reference value as carried in the column
// header's detail bytes.
type Scalar struct {
	arr Array
}

// NewScalar wraps a single-element Array as a Scalar, e.g. when decoding a
// reference value read back from a column header's detail bytes.
func NewScalar(a Array) Scalar { return Scalar{arr: a} }

// Kind returns the scalar's kind code.
func (s Scalar) Kind() kind.Code { return s.arr.Kind() }

// Bits returns the scalar's width in bits.
func (s Scalar) Bits() int { return s.arr.Bits() }

// Bytes encodes the scalar using the same little-endian layout as Array.Bytes.
func (s Scalar) Bytes() []byte { return s.arr.Bytes() }

// Int64 returns the scalar as an int64; only valid for Kind() == kind.Int.
func (s Scalar) Int64() (int64, error) {
	switch v := s.arr.Interface().(type) {
	case []int8:
		return int64(v[0]), nil
	case []int16:
		return int64(v[0]), nil
	case []int32:
		return int64(v[0]), nil
	case []int64:
		return v[0], nil
	default:
		return 0, fmt.Errorf("%w: scalar kind %q is not integer", errs.ErrUnsupportedKind, byte(s.Kind()))
	}
}

// Uint64 returns the scalar as a uint64; only valid for Kind() == kind.Uint.
func (s Scalar) Uint64() (uint64, error) {
	switch v := s.arr.Interface().(type) {
	case []uint8:
		return uint64(v[0]), nil
	case []uint16:
		return uint64(v[0]), nil
	case []uint32:
		return uint64(v[0]), nil
	case []uint64:
		return v[0], nil
	default:
		return 0, fmt.Errorf("%w: scalar kind %q is not unsigned", errs.ErrUnsupportedKind, byte(s.Kind()))
	}
}

// Float64 returns the scalar as a float64; only valid for Kind() == kind.Float.
func (s Scalar) Float64() (float64, error) {
	switch v := s.arr.Interface().(type) {
	case []float32:
		return float64(v[0]), nil
	case []float64:
		return v[0], nil
	default:
		return 0, fmt.Errorf("%w: scalar kind %q is not float", errs.ErrUnsupportedKind, byte(s.Kind()))
	}
}

func scalarInt(bits int, v int64) (Scalar, error) {
	switch bits {
	case 8:
		return Scalar{Int8Array{int8(v)}}, nil
	case 16:
		return Scalar{Int16Array{int16(v)}}, nil
	case 32:
		return Scalar{Int32Array{int32(v)}}, nil
	case 64:
		return Scalar{Int64Array{v}}, nil
	default:
		return Scalar{}, fmt.Errorf("%w: bits=%d", errs.ErrUnsupportedSize, bits)
	}
}

func scalarUint(bits int, v uint64) (Scalar, error) {
	switch bits {
	case 8:
		return Scalar{Uint8Array{uint8(v)}}, nil
	case 16:
		return Scalar{Uint16Array{uint16(v)}}, nil
	case 32:
		return Scalar{Uint32Array{uint32(v)}}, nil
	case 64:
		return Scalar{Uint64Array{v}}, nil
	default:
		return Scalar{}, fmt.Errorf("%w: bits=%d", errs.ErrUnsupportedSize, bits)
	}
}

func scalarFloat(bits int, v float64) (Scalar, error) {
	switch bits {
	case 32:
		return Scalar{Float32Array{float32(v)}}, nil
	case 64:
		return Scalar{Float64Array{v}}, nil
	default:
		return Scalar{}, fmt.Errorf("%w: bits=%d", errs.ErrUnsupportedSize, bits)
	}
}

// CompressResult is the output of Compress: a narrower-typed residual array
// plus the reference value needed, together with mode, to reconstruct the
// original array via Decompress.
type CompressResult struct {
	Residual       Array
	ReferenceValue Scalar
	HasReference   bool
}

// Compress applies the element-wise or minimum-offset delta transform to a,
// producing a residual array that is often representable in fewer bytes per
// element than a itself.
//
// Bypass cases return a unmodified with HasReference=false: arrays already
// at the minimum width for their kind ({i,u} at 1 byte, f at 2 bytes), and
// single-element arrays under ModeElementWise (there are no pairwise
// differences to take).
func Compress(a Array, mode Mode) (CompressResult, error) {
	if !a.Kind().IsNumeric() {
		return CompressResult{}, fmt.Errorf("%w: kind=%q", errs.ErrCompressionKindInvalid, byte(a.Kind()))
	}
	if mode != ModeElementWise && mode != ModeMinimumOffset {
		return CompressResult{}, fmt.Errorf("%w: mode=%q", errs.ErrCompressionModeInvalid, byte(mode))
	}

	if isMinimalWidth(a) || (mode == ModeElementWise && a.Len() <= 1) {
		return CompressResult{Residual: a}, nil
	}

	switch a.Kind() {
	case kind.Int:
		return compressInt(a, mode)
	case kind.Uint:
		return compressUint(a, mode)
	case kind.Float:
		return compressFloat(a, mode)
	default:
		return CompressResult{}, fmt.Errorf("%w: kind=%q", errs.ErrCompressionKindInvalid, byte(a.Kind()))
	}
}

func isMinimalWidth(a Array) bool {
	switch a.Kind() {
	case kind.Int, kind.Uint:
		return a.Bits() == 8
	case kind.Float:
		return a.Bits() == 16
	default:
		return false
	}
}

// fillInt64 widens a's elements into dst, which must already have length
// a.Len(). It leaves dst untouched (a no-op) for any non-integer kind, so
// callers that need to detect "not an integer array" should check
// a.Interface()'s type themselves rather than relying on dst.
func fillInt64(dst []int64, a Array) {
	switch v := a.Interface().(type) {
	case []int8:
		for i, x := range v {
			dst[i] = int64(x)
		}
	case []int16:
		for i, x := range v {
			dst[i] = int64(x)
		}
	case []int32:
		for i, x := range v {
			dst[i] = int64(x)
		}
	case []int64:
		copy(dst, v)
	case []uint8:
		for i, x := range v {
			dst[i] = int64(x)
		}
	case []uint16:
		for i, x := range v {
			dst[i] = int64(x)
		}
	case []uint32:
		for i, x := range v {
			dst[i] = int64(x)
		}
	case []uint64:
		for i, x := range v {
			dst[i] = int64(x)
		}
	}
}

func isIntegerArray(a Array) bool {
	switch a.Interface().(type) {
	case []int8, []int16, []int32, []int64, []uint8, []uint16, []uint32, []uint64:
		return true
	default:
		return false
	}
}

func toInt64Slice(a Array) []int64 {
	if !isIntegerArray(a) {
		return nil
	}
	out := make([]int64, a.Len())
	fillInt64(out, a)
	return out
}

func toUint64Slice(a Array) []uint64 {
	switch v := a.Interface().(type) {
	case []uint8:
		out := make([]uint64, len(v))
		for i, x := range v {
			out[i] = uint64(x)
		}
		return out
	case []uint16:
		out := make([]uint64, len(v))
		for i, x := range v {
			out[i] = uint64(x)
		}
		return out
	case []uint32:
		out := make([]uint64, len(v))
		for i, x := range v {
			out[i] = uint64(x)
		}
		return out
	case []uint64:
		return append([]uint64(nil), v...)
	default:
		return nil
	}
}

func fillFloat64(dst []float64, a Array) {
	switch v := a.Interface().(type) {
	case []float32:
		for i, x := range v {
			dst[i] = float64(x)
		}
	case []float64:
		copy(dst, v)
	}
}

func isFloatArray(a Array) bool {
	switch a.Interface().(type) {
	case []float32, []float64:
		return true
	default:
		return false
	}
}

func toFloat64Slice(a Array) []float64 {
	if !isFloatArray(a) {
		return nil
	}
	out := make([]float64, a.Len())
	fillFloat64(out, a)
	return out
}

// compressInt runs the delta transform in a pooled int64 working area: the
// widened source values and the per-element diffs are both reclaimed once
// castIntDiffs has copied the narrowed result into its own allocation, so
// neither buffer outlives this call.
func compressInt(a Array, mode Mode) (CompressResult, error) {
	n := a.Len()

	values, putValues := pool.GetInt64Slice(n)
	defer putValues()
	fillInt64(values, a)

	var ref int64
	var diff []int64
	var putDiff func()
	if mode == ModeElementWise {
		diff, putDiff = pool.GetInt64Slice(n - 1)
		ref = values[0]
		for i := 1; i < n; i++ {
			diff[i-1] = values[i] - values[i-1]
		}
	} else {
		diff, putDiff = pool.GetInt64Slice(n)
		ref = values[0]
		for _, v := range values {
			if v < ref {
				ref = v
			}
		}
		for i, v := range values {
			diff[i] = v - ref
		}
	}
	defer putDiff()

	refScalar, err := scalarInt(a.Bits(), ref)
	if err != nil {
		return CompressResult{}, err
	}

	residual, err := castIntDiffs(diff)
	if err != nil {
		return CompressResult{}, err
	}

	return CompressResult{Residual: residual, ReferenceValue: refScalar, HasReference: true}, nil
}

// compressUint mirrors compressInt; only the diff buffer is pooled since the
// uint64 source values have no matching pool type.
func compressUint(a Array, mode Mode) (CompressResult, error) {
	values := toUint64Slice(a)
	n := len(values)

	var ref uint64
	var diff []int64
	var putDiff func()
	if mode == ModeElementWise {
		diff, putDiff = pool.GetInt64Slice(n - 1)
		ref = values[0]
		for i := 1; i < n; i++ {
			diff[i-1] = int64(values[i]) - int64(values[i-1])
		}
	} else {
		diff, putDiff = pool.GetInt64Slice(n)
		ref = values[0]
		for _, v := range values {
			if v < ref {
				ref = v
			}
		}
		for i, v := range values {
			diff[i] = int64(v - ref)
		}
	}
	defer putDiff()

	refScalar, err := scalarUint(a.Bits(), ref)
	if err != nil {
		return CompressResult{}, err
	}

	residual, err := castIntDiffs(diff)
	if err != nil {
		return CompressResult{}, err
	}

	return CompressResult{Residual: residual, ReferenceValue: refScalar, HasReference: true}, nil
}

// castIntDiffs picks the narrowest signed or unsigned residual type that
// holds every element of diff, per spec §4.5: signed if any element is
// negative, unsigned otherwise.
func castIntDiffs(diff []int64) (Array, error) {
	minV, maxV := diff[0], diff[0]
	for _, d := range diff {
		if d < minV {
			minV = d
		}
		if d > maxV {
			maxV = d
		}
	}

	if minV < 0 {
		maxAbs := maxV
		if neg := -minV - 1; neg > maxAbs {
			maxAbs = neg
		}
		width, err := bytewidth.RequiredSigned(maxAbs)
		if err != nil {
			return nil, err
		}
		return buildIntArray(width, diff), nil
	}

	width := bytewidth.RequiredUnsignedU64(uint64(maxV))
	return buildUintArray(width, diff), nil
}

func buildIntArray(width int, diff []int64) Array {
	switch width {
	case 1:
		out := make(Int8Array, len(diff))
		for i, d := range diff {
			out[i] = int8(d)
		}
		return out
	case 2:
		out := make(Int16Array, len(diff))
		for i, d := range diff {
			out[i] = int16(d)
		}
		return out
	case 4:
		out := make(Int32Array, len(diff))
		for i, d := range diff {
			out[i] = int32(d)
		}
		return out
	default:
		out := make(Int64Array, len(diff))
		copy(out, diff)
		return out
	}
}

func buildUintArray(width int, diff []int64) Array {
	switch width {
	case 1:
		out := make(Uint8Array, len(diff))
		for i, d := range diff {
			out[i] = uint8(d)
		}
		return out
	case 2:
		out := make(Uint16Array, len(diff))
		for i, d := range diff {
			out[i] = uint16(d)
		}
		return out
	case 4:
		out := make(Uint32Array, len(diff))
		for i, d := range diff {
			out[i] = uint32(d)
		}
		return out
	default:
		out := make(Uint64Array, len(diff))
		for i, d := range diff {
			out[i] = uint64(d)
		}
		return out
	}
}

// compressFloat pools the widened source values but not diff: diff is
// wrapped as a Float64Array and handed to NarrowFloat, which may return
// that exact backing array unchanged (when it can't narrow), so diff can
// escape this call and must not be pooled.
func compressFloat(a Array, mode Mode) (CompressResult, error) {
	n := a.Len()

	values, putValues := pool.GetFloat64Slice(n)
	defer putValues()
	fillFloat64(values, a)

	var ref float64
	var diff []float64
	if mode == ModeElementWise {
		ref = values[0]
		diff = make([]float64, n-1)
		for i := 1; i < n; i++ {
			diff[i-1] = values[i] - values[i-1]
		}
	} else {
		ref = values[0]
		for _, v := range values {
			if v < ref {
				ref = v
			}
		}
		diff = make([]float64, n)
		for i, v := range values {
			diff[i] = v - ref
		}
	}

	refScalar, err := scalarFloat(a.Bits(), ref)
	if err != nil {
		return CompressResult{}, err
	}

	residual, err := NarrowFloat(Float64Array(diff))
	if err != nil {
		return CompressResult{}, err
	}

	return CompressResult{Residual: residual, ReferenceValue: refScalar, HasReference: true}, nil
}

// Decompress reverses Compress, reconstructing an array of bits width
// for kind k from a residual and its reference value.
func Decompress(residual Array, mode Mode, reference Scalar, hasReference bool, k kind.Code, bits int) (Array, error) {
	if !hasReference {
		return residual, nil
	}
	if mode != ModeElementWise && mode != ModeMinimumOffset {
		return nil, fmt.Errorf("%w: mode=%q", errs.ErrCompressionModeInvalid, byte(mode))
	}

	switch k {
	case kind.Int:
		ref, err := reference.Int64()
		if err != nil {
			return nil, err
		}
		return decompressInt(residual, mode, ref, bits)
	case kind.Uint:
		ref, err := reference.Uint64()
		if err != nil {
			return nil, err
		}
		return decompressUint(residual, mode, ref, bits)
	case kind.Float:
		ref, err := reference.Float64()
		if err != nil {
			return nil, err
		}
		return decompressFloat(residual, mode, ref, bits)
	default:
		return nil, fmt.Errorf("%w: kind=%q", errs.ErrUnsupportedKind, byte(k))
	}
}

func decompressInt(residual Array, mode Mode, ref int64, bits int) (Array, error) {
	diff := toInt64Slice(residual)
	if diff == nil {
		return nil, fmt.Errorf("%w: residual kind=%q is not integer", errs.ErrUnsupportedKind, byte(residual.Kind()))
	}

	var out []int64
	if mode == ModeElementWise {
		out = make([]int64, len(diff)+1)
		out[0] = ref
		for i, d := range diff {
			out[i+1] = out[i] + d
		}
	} else {
		out = make([]int64, len(diff))
		for i, d := range diff {
			out[i] = d + ref
		}
	}

	return buildIntArray(widthFor(bits), out), nil
}

func decompressUint(residual Array, mode Mode, ref uint64, bits int) (Array, error) {
	diff := toInt64Slice(residual)
	if diff == nil {
		return nil, fmt.Errorf("%w: residual kind=%q is not integer", errs.ErrUnsupportedKind, byte(residual.Kind()))
	}

	var out []int64
	if mode == ModeElementWise {
		out = make([]int64, len(diff)+1)
		out[0] = int64(ref)
		for i, d := range diff {
			out[i+1] = out[i] + d
		}
	} else {
		out = make([]int64, len(diff))
		for i, d := range diff {
			out[i] = int64(ref) + d
		}
	}

	return buildUintArray(widthFor(bits), out), nil
}

func decompressFloat(residual Array, mode Mode, ref float64, bits int) (Array, error) {
	diff := toFloat64Slice(residual)
	if diff == nil {
		// Residual may still be a float16Array; convert via Interface().
		if v, ok := residual.Interface().([]float32); ok {
			diff = make([]float64, len(v))
			for i, x := range v {
				diff[i] = float64(x)
			}
		} else {
			return nil, fmt.Errorf("%w: residual kind=%q is not float", errs.ErrUnsupportedKind, byte(residual.Kind()))
		}
	}

	var out []float64
	if mode == ModeElementWise {
		out = make([]float64, len(diff)+1)
		out[0] = ref
		for i, d := range diff {
			out[i+1] = out[i] + d
		}
	} else {
		out = make([]float64, len(diff))
		for i, d := range diff {
			out[i] = d + ref
		}
	}

	if bits == 32 {
		f32 := make(Float32Array, len(out))
		for i, v := range out {
			f32[i] = float32(v)
		}
		return f32, nil
	}

	return Float64Array(out), nil
}

func widthFor(bits int) int {
	w := bits / 8
	if w == 0 {
		return 1
	}
	return w
}
