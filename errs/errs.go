// Package errs holds the sentinel errors shared across colpack's packages.
//
// Callers should compare with errors.Is against these sentinels rather than
// matching on error strings. Call sites that need to attach context (a
// column name, an offending value) wrap the sentinel with fmt.Errorf and
// the %w verb.
package errs

import "errors"

var (
	// ErrShapeMismatch is returned when a column's row count disagrees with
	// the container's established row count.
	ErrShapeMismatch = errors.New("colpack: column row count does not match container row count")

	// ErrUnsupportedKind is returned when a kind code outside {i,u,f} is used
	// for a data or index column.
	ErrUnsupportedKind = errors.New("colpack: unsupported kind code")

	// ErrUnsupportedSize is returned when a (kind, bits) pair has no
	// canonical numeric type.
	ErrUnsupportedSize = errors.New("colpack: unsupported (kind, bits) pair")

	// ErrSizeNotPositive is returned when a bit count must be positive but
	// isn't.
	ErrSizeNotPositive = errors.New("colpack: size must be positive")

	// ErrStringBitsNotMultipleOf32 is returned when a fixed-width text type's
	// bit count isn't a multiple of 32.
	ErrStringBitsNotMultipleOf32 = errors.New("colpack: string bit count must be a multiple of 32")

	// ErrCompressionModeInvalid is returned when a compression mode
	// character isn't 'e' or 'm'.
	ErrCompressionModeInvalid = errors.New("colpack: compression mode must be 'e' or 'm'")

	// ErrCompressionKindInvalid is returned when an array's kind isn't
	// eligible for compression.
	ErrCompressionKindInvalid = errors.New("colpack: array kind not eligible for compression")

	// ErrNegativeUnsigned is returned when a negative value is passed where
	// an unsigned value is required.
	ErrNegativeUnsigned = errors.New("colpack: value must not be negative")

	// ErrExceedsU64 is returned when a value exceeds the range of uint64.
	ErrExceedsU64 = errors.New("colpack: value exceeds uint64 range")

	// ErrExceedsI64 is returned when a value exceeds the range of int64.
	ErrExceedsI64 = errors.New("colpack: value exceeds int64 range")

	// ErrNotInteger is returned when a fractional-digit count isn't an
	// integer.
	ErrNotInteger = errors.New("colpack: decimal count must be an integer")

	// ErrNegativeDecimals is returned when a fractional-digit count is
	// negative.
	ErrNegativeDecimals = errors.New("colpack: decimal count must not be negative")

	// ErrCouldNotAcquireLock is returned when lock acquisition exceeds its
	// budget.
	ErrCouldNotAcquireLock = errors.New("colpack: could not acquire file lock before timeout")

	// ErrCharConversion is returned when a kind code can't be converted
	// to/from its ASCII representation.
	ErrCharConversion = errors.New("colpack: invalid kind code conversion")

	// ErrIdentifierByteRepresentation is returned when the identifier width
	// is non-positive.
	ErrIdentifierByteRepresentation = errors.New("colpack: identifier byte width must be positive")

	// ErrInvalidHeaderSize is returned when a header byte slice isn't the
	// expected fixed size.
	ErrInvalidHeaderSize = errors.New("colpack: invalid header size")

	// ErrDuplicateIdentifier is returned when two columns in the same
	// container share an identifier.
	ErrDuplicateIdentifier = errors.New("colpack: duplicate column identifier")

	// ErrColumnNotFound is returned when a requested column identifier isn't
	// present in the container.
	ErrColumnNotFound = errors.New("colpack: column not found")

	// ErrHashTableUnsupported is returned when a column's use_hash_table
	// option bit is set; the transform isn't implemented yet.
	ErrHashTableUnsupported = errors.New("colpack: use_hash_table option is reserved and not implemented")

	// ErrByteCompressionInvalid is returned when a column's detail bytes
	// name an unknown byte-compression algorithm.
	ErrByteCompressionInvalid = errors.New("colpack: invalid byte compression algorithm")

	// ErrIdentifierTooLong is returned when an identifier doesn't fit within
	// the container's identifier width.
	ErrIdentifierTooLong = errors.New("colpack: identifier exceeds container identifier width")

	// ErrNoColumns is returned when a container is written with no columns
	// set.
	ErrNoColumns = errors.New("colpack: container has no columns to write")

	// ErrReservedOptionBits is returned when a column's options bitfield
	// has a reserved bit set.
	ErrReservedOptionBits = errors.New("colpack: reserved option bits must be zero")
)
