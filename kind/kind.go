// Package kind provides the canonical mapping between a (kind code,
// width-in-bits) pair and a concrete numeric type.
//
// A kind code is a single-character ASCII tag: 'i' signed integer, 'u'
// unsigned integer, 'f' floating point, 'U' fixed-width text used only for
// column identifiers.
package kind

import (
	"fmt"

	"github.com/colpack/colpack/errs"
)

// Code is a single-character kind tag, serialized on disk as one byte (the
// ASCII code point of the character).
type Code byte

const (
	Int    Code = 'i' // Int is the signed integer kind.
	Uint   Code = 'u' // Uint is the unsigned integer kind.
	Float  Code = 'f' // Float is the floating-point kind.
	String Code = 'U' // String is the fixed-width text kind, used for identifiers.
)

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

// IsNumeric reports whether c is one of the three numeric kinds accepted for
// column data (as opposed to the identifier-only String kind).
func (c Code) IsNumeric() bool {
	return c == Int || c == Uint || c == Float
}

// Type describes the canonical Go representation for a (kind, bits) pair:
// its byte width and a human-readable name, used by callers that need to
// reflect on a column's declared type without a full type-switch.
type Type struct {
	Kind  Code
	Bits  int
	Bytes int
	Name  string
}

var numericTable = map[Code]map[int]Type{
	Int: {
		8:  {Int, 8, 1, "int8"},
		16: {Int, 16, 2, "int16"},
		32: {Int, 32, 4, "int32"},
		64: {Int, 64, 8, "int64"},
	},
	Uint: {
		8:  {Uint, 8, 1, "uint8"},
		16: {Uint, 16, 2, "uint16"},
		32: {Uint, 32, 4, "uint32"},
		64: {Uint, 64, 8, "uint64"},
	},
	Float: {
		16: {Float, 16, 2, "float16"},
		32: {Float, 32, 4, "float32"},
		64: {Float, 64, 8, "float64"},
	},
}

// NumericType returns the canonical numeric type for the (kind, bits) pair.
//
// bits must be one of {8,16,32,64} for Int/Uint, or {16,32,64} for Float.
// Returns errs.ErrUnsupportedSize if the pair isn't in the table, or
// errs.ErrUnsupportedKind if kind isn't one of {Int,Uint,Float,String}.
func NumericType(k Code, bits int) (Type, error) {
	if k == String {
		return StringType(bits)
	}

	widths, ok := numericTable[k]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedKind, byte(k))
	}

	t, ok := widths[bits]
	if !ok {
		return Type{}, fmt.Errorf("%w: kind=%q bits=%d", errs.ErrUnsupportedSize, byte(k), bits)
	}

	return t, nil
}

// StringType returns the fixed-width text type holding bits/32 characters.
//
// Returns errs.ErrSizeNotPositive if bits <= 0, or
// errs.ErrStringBitsNotMultipleOf32 if bits isn't a multiple of 32.
func StringType(bits int) (Type, error) {
	if bits <= 0 {
		return Type{}, errs.ErrSizeNotPositive
	}
	if bits%32 != 0 {
		return Type{}, fmt.Errorf("%w: bits=%d", errs.ErrStringBitsNotMultipleOf32, bits)
	}

	chars := bits / 32
	return Type{String, bits, bits / 8, fmt.Sprintf("[%d]byte", chars*4)}, nil
}

// CodeToInt converts a kind code (or a numeric value already equal to one)
// to its integer representation, i.e. the ASCII code point.
//
// Accepts an int/byte already holding the code point, or a single-rune
// string, mirroring the reference implementation's permissive conversion
// helper. Returns errs.ErrCharConversion for anything else.
func CodeToInt(v any) (int, error) {
	switch x := v.(type) {
	case Code:
		return int(x), nil
	case byte:
		return int(x), nil
	case int:
		return x, nil
	case rune:
		return int(x), nil
	case string:
		if len(x) != 1 {
			return 0, fmt.Errorf("%w: string %q is not a single character", errs.ErrCharConversion, x)
		}
		return int(x[0]), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", errs.ErrCharConversion, v)
	}
}

// CodeFromInt converts an integer code point back to a Code.
//
// Returns errs.ErrCharConversion if i is outside the ASCII byte range.
func CodeFromInt(i int) (Code, error) {
	if i < 0 || i > 0xFF {
		return 0, fmt.Errorf("%w: %d out of byte range", errs.ErrCharConversion, i)
	}

	return Code(byte(i)), nil
}
