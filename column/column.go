// Package column orchestrates a single column's codec: optional fixed-point
// rounding, optional element-wise/minimum-offset delta compression, and
// optional supplemental byte compression, in that order on write; the
// reverse on read. It bridges the algorithmic core (numeric) and the
// on-disk record layout (section) into the per-column record the container
// package assembles into a file.
package column

import (
	"fmt"

	"github.com/colpack/colpack/bytecodec"
	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/numeric"
	"github.com/colpack/colpack/section"
)

// Column is one named, homogeneous sequence belonging to a container.
type Column struct {
	Identifier    string
	IsIndex       bool
	Kind          kind.Code
	BytesPerValue int

	UseCompression         bool
	CompressionMode        numeric.Mode
	UseRounding            bool
	Decimals               uint8
	UseByteCompression     bool
	ByteCompressionAlgo    bytecodec.Algorithm

	values  numeric.Array // logical values, set directly or by Decode
	encoded numeric.Array // residual array, set by Encode or by attaching raw disk bytes
	ref     numeric.Scalar
	hasRef  bool
	encodedSet bool

	// residualKind/residualWidth are populated from a parsed Definition's
	// detail bytes, so LoadPayload knows how to decode the raw column
	// payload without re-parsing the detail bytes a second time.
	residualKind  kind.Code
	residualWidth int

	// payloadLen is the on-disk byte length of the last PayloadBytes()
	// call, populated from a parsed Definition's extra_bytes field when
	// byte compression is enabled, so a container reader knows how many
	// bytes to read off disk before handing them to LoadPayload.
	payloadLen int

	payload    []byte
	payloadSet bool
}

// New constructs a Column with the given declared type and logical values.
// values.Kind() and values.Bits() must match k and bytesPerValue*8.
func New(identifier string, isIndex bool, k kind.Code, bytesPerValue int, values numeric.Array) (*Column, error) {
	if !k.IsNumeric() {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedKind, byte(k))
	}
	if _, err := kind.NumericType(k, bytesPerValue*8); err != nil {
		return nil, err
	}
	if values.Kind() != k || values.Bits() != bytesPerValue*8 {
		return nil, fmt.Errorf("%w: column %q declares (%q,%d) but values are (%q,%d)",
			errs.ErrUnsupportedKind, identifier, byte(k), bytesPerValue*8, byte(values.Kind()), values.Bits())
	}

	return &Column{
		Identifier:    identifier,
		IsIndex:       isIndex,
		Kind:          k,
		BytesPerValue: bytesPerValue,
		values:        values,
	}, nil
}

// Len returns the column's row count (of its logical values).
func (c *Column) Len() int { return c.values.Len() }

// Values returns the column's logical array. It does not decode: a column
// built by FromDefinition has values only once LoadPayload or Decode has run.
func (c *Column) Values() numeric.Array { return c.values }

// Encode runs rounding (if enabled) then compression (if enabled),
// populating the residual array and reference value. It is idempotent:
// calling it again after the first successful call is a no-op.
func (c *Column) Encode() error {
	if c.encodedSet {
		return nil
	}

	working := c.values

	if c.UseRounding {
		rounded, err := numeric.RoundToFixed(working, int(c.Decimals))
		if err != nil {
			return fmt.Errorf("column %q: rounding: %w", c.Identifier, err)
		}
		working = rounded
	}

	if c.UseCompression {
		result, err := numeric.Compress(working, c.CompressionMode)
		if err != nil {
			return fmt.Errorf("column %q: compression: %w", c.Identifier, err)
		}
		c.encoded = result.Residual
		c.ref = result.ReferenceValue
		c.hasRef = result.HasReference
	} else {
		c.encoded = working
	}

	c.encodedSet = true

	return nil
}

// Decode reverses Encode: given the residual array, mode, and reference
// value (as read from disk), reconstructs the logical values cast back to
// the column's declared (kind, bytes_per_value). If rounding was enabled,
// decompression first targets the int64 domain RoundToFixed produced, then
// the result is divided by 10^decimals and cast back to the declared type.
func (c *Column) Decode() error {
	targetKind, targetBits := c.Kind, c.BytesPerValue*8
	if c.UseRounding {
		targetKind, targetBits = kind.Int, 64
	}

	out := c.encoded
	if c.UseCompression {
		decoded, err := numeric.Decompress(c.encoded, c.CompressionMode, c.ref, c.hasRef, targetKind, targetBits)
		if err != nil {
			return fmt.Errorf("column %q: decompress: %w", c.Identifier, err)
		}
		out = decoded
	}

	if c.UseRounding {
		unrounded, err := numeric.UnroundFixed(out, int(c.Decimals), c.Kind, c.BytesPerValue*8)
		if err != nil {
			return fmt.Errorf("column %q: unrounding: %w", c.Identifier, err)
		}
		out = unrounded
	}

	c.values = out

	return nil
}

// AttachEncoded sets the column's residual state directly, as the read
// path does after parsing a column's header and raw payload bytes, without
// running Encode.
func (c *Column) AttachEncoded(residual numeric.Array, mode numeric.Mode, ref numeric.Scalar, hasRef bool) {
	c.encoded = residual
	c.CompressionMode = mode
	c.ref = ref
	c.hasRef = hasRef
	c.encodedSet = true
}

// Residual returns the column's residual array, encoding it first if
// necessary.
func (c *Column) Residual() (numeric.Array, error) {
	if err := c.Encode(); err != nil {
		return nil, err
	}
	return c.encoded, nil
}

// PayloadBytes returns the on-disk bytes for this column's payload: the
// residual array's bytes, optionally run through a byte-compression codec.
// The result is cached; PayloadLen reports its length for a container
// writer to record in extra_bytes.
func (c *Column) PayloadBytes() ([]byte, error) {
	if c.payloadSet {
		return c.payload, nil
	}

	residual, err := c.Residual()
	if err != nil {
		return nil, err
	}

	raw := residual.Bytes()
	out := raw
	if c.UseByteCompression {
		codec, err := bytecodec.ForAlgorithm(c.ByteCompressionAlgo)
		if err != nil {
			return nil, err
		}
		out, err = codec.Compress(raw)
		if err != nil {
			return nil, err
		}
	}

	c.payload = out
	c.payloadLen = len(out)
	c.payloadSet = true

	return out, nil
}

// HasReference reports whether this column's compression pass recorded a
// reference value, false for the bypass cases in numeric.Compress (an
// array already at its kind's minimum width, or a single-element array
// under element-wise mode).
func (c *Column) HasReference() bool { return c.hasRef }

// ResidualLen returns the number of elements the column's residual holds
// before any byte compression: rowCount-1 under element-wise mode with a
// recorded reference (the reference itself accounts for the dropped
// element), else rowCount.
func (c *Column) ResidualLen(rowCount int) int {
	if c.UseCompression && c.hasRef && c.CompressionMode == numeric.ModeElementWise {
		return rowCount - 1
	}
	return rowCount
}

// DiskWidth returns the per-element byte width this column occupies on
// disk before any byte compression: the residual width if compression is
// enabled, else the declared bytes_per_value.
func (c *Column) DiskWidth() int {
	if c.UseCompression {
		return c.residualWidth
	}
	return c.BytesPerValue
}

// PayloadLen returns the on-disk byte length of this column's payload,
// which for a byte-compressed column is the value recorded in extra_bytes
// (the compressed length cannot be derived from residual_width × row_count
// alone). Requires PayloadBytes or FromDefinition to have run first.
func (c *Column) PayloadLen() int { return c.payloadLen }

// Definition builds the on-disk column header record for this column. Call
// Encode first (or use Residual/PayloadBytes, which call it for you).
func (c *Column) Definition() (section.Definition, error) {
	if !c.encodedSet {
		if err := c.Encode(); err != nil {
			return section.Definition{}, err
		}
	}

	opts := section.ColumnOptions(0)
	if c.IsIndex {
		opts |= section.OptionIsIndex
	}
	if c.UseCompression {
		opts |= section.OptionUseCompression
	}
	if c.UseRounding {
		opts |= section.OptionUseFloatingPointRounding
	}
	if c.UseByteCompression {
		opts |= section.OptionUseByteCompression
	}

	detail := section.Detail{
		CompressionEnabled:  c.UseCompression,
		Mode:                c.CompressionMode,
		ResidualKind:        c.encoded.Kind(),
		ResidualWidth:       c.encoded.Bits() / 8,
		HasReference:        c.hasRef,
		ReferenceValue:      c.ref,
		RoundingEnabled:     c.UseRounding,
		Decimals:            c.Decimals,
		UseByteCompression:  c.UseByteCompression,
		ByteCompressionAlgo: c.ByteCompressionAlgo,
	}

	refWidth := c.BytesPerValue
	if c.hasRef {
		refWidth = c.ref.Bits() / 8
	}

	detailRaw, err := detail.Bytes(refWidth)
	if err != nil {
		return section.Definition{}, fmt.Errorf("column %q: %w", c.Identifier, err)
	}

	var extraBytes uint32
	if c.UseByteCompression {
		payload, err := c.PayloadBytes()
		if err != nil {
			return section.Definition{}, fmt.Errorf("column %q: %w", c.Identifier, err)
		}
		extraBytes = uint32(len(payload))
	}

	return section.Definition{
		Identifier:    c.Identifier,
		Options:       opts,
		BytesPerValue: uint8(c.BytesPerValue),
		Kind:          c.Kind,
		ExtraBytes:    extraBytes,
		DetailRaw:     detailRaw,
	}, nil
}

// FromDefinition reconstructs a Column's static fields (everything except
// its values/residual) from a parsed header. Callers then attach the raw
// payload bytes via AttachEncoded/Decode.
func FromDefinition(def section.Definition) (*Column, error) {
	if err := def.Options.Validate(); err != nil {
		return nil, fmt.Errorf("column %q: %w", def.Identifier, err)
	}

	useByteCompression := def.Options.UseByteCompression()

	detail, err := section.ParseDetail(
		def.DetailRaw[:],
		def.Options.UseCompression(),
		def.Options.UseFloatingPointRounding(),
		useByteCompression,
	)
	if err != nil {
		return nil, fmt.Errorf("column %q: detail bytes: %w", def.Identifier, err)
	}

	c := &Column{
		Identifier:          def.Identifier,
		IsIndex:             def.Options.IsIndex(),
		Kind:                def.Kind,
		BytesPerValue:       int(def.BytesPerValue),
		UseCompression:      def.Options.UseCompression(),
		CompressionMode:     detail.Mode,
		UseRounding:         def.Options.UseFloatingPointRounding(),
		Decimals:            detail.Decimals,
		UseByteCompression:  useByteCompression,
		ByteCompressionAlgo: detail.ByteCompressionAlgo,
		ref:                 detail.ReferenceValue,
		hasRef:              detail.HasReference,
		residualKind:        detail.ResidualKind,
		residualWidth:       detail.ResidualWidth,
		payloadLen:          int(def.ExtraBytes),
	}

	return c, nil
}

// LoadPayload decodes raw on-disk payload bytes (reversing byte compression
// if enabled) into the column's residual array, then decodes the residual
// into logical values.
func (c *Column) LoadPayload(raw []byte) error {
	payload := raw
	if c.UseByteCompression {
		codec, err := bytecodec.ForAlgorithm(c.ByteCompressionAlgo)
		if err != nil {
			return err
		}
		payload, err = codec.Decompress(raw)
		if err != nil {
			return fmt.Errorf("column %q: byte decompression: %w", c.Identifier, err)
		}
	}

	width := c.BytesPerValue
	residualKind := c.Kind
	if c.UseRounding && c.Kind == kind.Float {
		// RoundToFixed turned the float values into signed integers.
		residualKind = kind.Int
	}
	if c.UseCompression {
		width = c.residualWidth
		residualKind = c.residualKind
	}

	residual, err := numeric.FromBytes(residualKind, width*8, payload)
	if err != nil {
		return fmt.Errorf("column %q: decoding payload: %w", c.Identifier, err)
	}

	c.encoded = residual
	c.encodedSet = true

	return c.Decode()
}
