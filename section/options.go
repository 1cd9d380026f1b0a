package section

import (
	"fmt"

	"github.com/colpack/colpack/errs"
)

// ColumnOptions is the per-column 16-bit options bitfield.
type ColumnOptions uint16

const (
	// OptionIsIndex marks a column as an index column; index columns are
	// written before data columns regardless of insertion order between
	// the two groups.
	OptionIsIndex ColumnOptions = 1 << 0
	// OptionUseCompression enables the element-wise/minimum-offset delta
	// transform (numeric.Compress) for this column's payload.
	OptionUseCompression ColumnOptions = 1 << 1
	// OptionUseHashTable is reserved. No transform is defined for it; a
	// column header with this bit set is rejected when it is read.
	OptionUseHashTable ColumnOptions = 1 << 2
	// OptionUseFloatingPointRounding enables the fixed-point rounding
	// transform (numeric.RoundToFixed) before compression.
	OptionUseFloatingPointRounding ColumnOptions = 1 << 3
	// OptionUseByteCompression enables a supplemental byte-level compression
	// codec (bytecodec) over the residual bytes. The codec selector is
	// carried in the column's detail bytes; extra_bytes holds the
	// compressed payload length.
	OptionUseByteCompression ColumnOptions = 1 << 4

	reservedOptionsMask ColumnOptions = 0xFFE0
)

// IsIndex reports whether OptionIsIndex is set.
func (o ColumnOptions) IsIndex() bool { return o&OptionIsIndex != 0 }

// UseCompression reports whether OptionUseCompression is set.
func (o ColumnOptions) UseCompression() bool { return o&OptionUseCompression != 0 }

// UseHashTable reports whether OptionUseHashTable is set.
func (o ColumnOptions) UseHashTable() bool { return o&OptionUseHashTable != 0 }

// UseFloatingPointRounding reports whether OptionUseFloatingPointRounding is
// set.
func (o ColumnOptions) UseFloatingPointRounding() bool {
	return o&OptionUseFloatingPointRounding != 0
}

// UseByteCompression reports whether OptionUseByteCompression is set.
func (o ColumnOptions) UseByteCompression() bool { return o&OptionUseByteCompression != 0 }

// Validate rejects combinations this package doesn't support: the reserved
// hash-table bit, and any of the still-reserved bits 5-15.
func (o ColumnOptions) Validate() error {
	if o.UseHashTable() {
		return errs.ErrHashTableUnsupported
	}
	if o&reservedOptionsMask != 0 {
		return fmt.Errorf("%w: 0x%04x", errs.ErrReservedOptionBits, uint16(o))
	}

	return nil
}
