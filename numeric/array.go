// Package numeric implements the algorithmic core of the column codec:
// lossless float-width reduction, fixed-point rounding, and the
// element-wise / minimum-offset delta compressor and decompressor.
//
// Every numeric column, in memory, is represented as an Array: a tagged
// variant over the ten fixed-width numeric Go types plus the
// codec-internal float16 residual type. This mirrors the reference
// implementation's numpy dtype dispatch, translated to Go as a small
// interface with one concrete type per (kind, width) pair rather than
// runtime type switches sprinkled through the codec.
package numeric

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
)

// Array is a homogeneous, fixed-width numeric sequence. Every column's
// logical values and its encoded residual are both represented as an
// Array; the only difference is which concrete type backs them.
type Array interface {
	// Kind returns the array's kind code.
	Kind() kind.Code
	// Bits returns the per-element width in bits (8, 16, 32, or 64).
	Bits() int
	// Len returns the number of elements.
	Len() int
	// Bytes encodes the array to its on-disk little-endian representation.
	Bytes() []byte
	// Interface returns the underlying Go slice as any (e.g. []int32),
	// for callers that need the concrete values rather than raw bytes.
	Interface() any
}

// Int8Array is a sequence of 8-bit signed integers.
type Int8Array []int8

// Int16Array is a sequence of 16-bit signed integers.
type Int16Array []int16

// Int32Array is a sequence of 32-bit signed integers.
type Int32Array []int32

// Int64Array is a sequence of 64-bit signed integers.
type Int64Array []int64

// Uint8Array is a sequence of 8-bit unsigned integers.
type Uint8Array []uint8

// Uint16Array is a sequence of 16-bit unsigned integers.
type Uint16Array []uint16

// Uint32Array is a sequence of 32-bit unsigned integers.
type Uint32Array []uint32

// Uint64Array is a sequence of 64-bit unsigned integers.
type Uint64Array []uint64

// Float32Array is a sequence of 32-bit floats.
type Float32Array []float32

// Float64Array is a sequence of 64-bit floats.
type Float64Array []float64

// float16Array is a sequence of 16-bit floats. It is never constructed
// directly by a caller outside this package; it only appears as the
// residual of a float compression pass that narrowed all the way down, or
// as a decoded value for a column whose declared bytes_per_value is 2.
type float16Array []float16

func (a Int8Array) Kind() kind.Code  { return kind.Int }
func (a Int8Array) Bits() int        { return 8 }
func (a Int8Array) Len() int         { return len(a) }
func (a Int8Array) Interface() any   { return []int8(a) }
func (a Int8Array) Bytes() []byte {
	b := make([]byte, len(a))
	for i, v := range a {
		b[i] = byte(v)
	}
	return b
}

func (a Int16Array) Kind() kind.Code { return kind.Int }
func (a Int16Array) Bits() int       { return 16 }
func (a Int16Array) Len() int        { return len(a) }
func (a Int16Array) Interface() any  { return []int16(a) }
func (a Int16Array) Bytes() []byte {
	b := make([]byte, len(a)*2)
	for i, v := range a {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

func (a Int32Array) Kind() kind.Code { return kind.Int }
func (a Int32Array) Bits() int       { return 32 }
func (a Int32Array) Len() int        { return len(a) }
func (a Int32Array) Interface() any  { return []int32(a) }
func (a Int32Array) Bytes() []byte {
	b := make([]byte, len(a)*4)
	for i, v := range a {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(v))
	}
	return b
}

func (a Int64Array) Kind() kind.Code { return kind.Int }
func (a Int64Array) Bits() int       { return 64 }
func (a Int64Array) Len() int        { return len(a) }
func (a Int64Array) Interface() any  { return []int64(a) }
func (a Int64Array) Bytes() []byte {
	b := make([]byte, len(a)*8)
	for i, v := range a {
		binary.LittleEndian.PutUint64(b[i*8:], uint64(v))
	}
	return b
}

func (a Uint8Array) Kind() kind.Code { return kind.Uint }
func (a Uint8Array) Bits() int       { return 8 }
func (a Uint8Array) Len() int        { return len(a) }
func (a Uint8Array) Interface() any  { return []uint8(a) }
func (a Uint8Array) Bytes() []byte   { return append([]byte(nil), a...) }

func (a Uint16Array) Kind() kind.Code { return kind.Uint }
func (a Uint16Array) Bits() int       { return 16 }
func (a Uint16Array) Len() int        { return len(a) }
func (a Uint16Array) Interface() any  { return []uint16(a) }
func (a Uint16Array) Bytes() []byte {
	b := make([]byte, len(a)*2)
	for i, v := range a {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

func (a Uint32Array) Kind() kind.Code { return kind.Uint }
func (a Uint32Array) Bits() int       { return 32 }
func (a Uint32Array) Len() int        { return len(a) }
func (a Uint32Array) Interface() any  { return []uint32(a) }
func (a Uint32Array) Bytes() []byte {
	b := make([]byte, len(a)*4)
	for i, v := range a {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b
}

func (a Uint64Array) Kind() kind.Code { return kind.Uint }
func (a Uint64Array) Bits() int       { return 64 }
func (a Uint64Array) Len() int        { return len(a) }
func (a Uint64Array) Interface() any  { return []uint64(a) }
func (a Uint64Array) Bytes() []byte {
	b := make([]byte, len(a)*8)
	for i, v := range a {
		binary.LittleEndian.PutUint64(b[i*8:], v)
	}
	return b
}

func (a Float32Array) Kind() kind.Code { return kind.Float }
func (a Float32Array) Bits() int       { return 32 }
func (a Float32Array) Len() int        { return len(a) }
func (a Float32Array) Interface() any  { return []float32(a) }
func (a Float32Array) Bytes() []byte {
	b := make([]byte, len(a)*4)
	for i, v := range a {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func (a Float64Array) Kind() kind.Code { return kind.Float }
func (a Float64Array) Bits() int       { return 64 }
func (a Float64Array) Len() int        { return len(a) }
func (a Float64Array) Interface() any  { return []float64(a) }
func (a Float64Array) Bytes() []byte {
	b := make([]byte, len(a)*8)
	for i, v := range a {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b
}

func (a float16Array) Kind() kind.Code { return kind.Float }
func (a float16Array) Bits() int       { return 16 }
func (a float16Array) Len() int        { return len(a) }
func (a float16Array) Interface() any {
	out := make([]float32, len(a))
	for i, v := range a {
		out[i] = float16ToFloat32(v)
	}
	return out
}
func (a float16Array) Bytes() []byte {
	b := make([]byte, len(a)*2)
	for i, v := range a {
		bb := v.bytes(true)
		b[i*2] = bb[0]
		b[i*2+1] = bb[1]
	}
	return b
}

// FromBytes decodes raw little-endian bytes into the Array variant matching
// (k, bits). This is how a column codec materializes both a column's
// logical values (declared kind/bits) and its encoded residual (recorded
// residual kind/bits) after reading them off disk.
func FromBytes(k kind.Code, bits int, data []byte) (Array, error) {
	byteWidth := bits / 8
	if byteWidth == 0 || len(data)%byteWidth != 0 {
		return nil, fmt.Errorf("%w: kind=%q bits=%d len=%d", errs.ErrUnsupportedSize, byte(k), bits, len(data))
	}
	n := len(data) / byteWidth

	switch {
	case k == kind.Int && bits == 8:
		out := make(Int8Array, n)
		for i := range out {
			out[i] = int8(data[i])
		}
		return out, nil
	case k == kind.Int && bits == 16:
		out := make(Int16Array, n)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		return out, nil
	case k == kind.Int && bits == 32:
		out := make(Int32Array, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil
	case k == kind.Int && bits == 64:
		out := make(Int64Array, n)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return out, nil
	case k == kind.Uint && bits == 8:
		out := make(Uint8Array, n)
		copy(out, data)
		return out, nil
	case k == kind.Uint && bits == 16:
		out := make(Uint16Array, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(data[i*2:])
		}
		return out, nil
	case k == kind.Uint && bits == 32:
		out := make(Uint32Array, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
		return out, nil
	case k == kind.Uint && bits == 64:
		out := make(Uint64Array, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(data[i*8:])
		}
		return out, nil
	case k == kind.Float && bits == 16:
		out := make(float16Array, n)
		for i := range out {
			out[i] = float16FromBytes(data[i*2:i*2+2], true)
		}
		return out, nil
	case k == kind.Float && bits == 32:
		out := make(Float32Array, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil
	case k == kind.Float && bits == 64:
		out := make(Float64Array, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: kind=%q bits=%d", errs.ErrUnsupportedSize, byte(k), bits)
	}
}
