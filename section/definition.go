package section

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
)

// DefinitionFixedSize is the size, in bytes, of a column header excluding
// its variable-width identifier field.
const DefinitionFixedSize = 40

// Definition is a single column's header record: its identifier, options,
// declared type, and transform parameters. The identifier is encoded as a
// fixed-width text field, one 4-byte little-endian Unicode code point per
// character, zero-padded on the right — the same UCS-4-style layout
// kind.StringType describes, matching how the reference implementation
// hands column names to a numpy 'U' dtype field.
type Definition struct {
	Identifier    string
	Options       ColumnOptions
	BytesPerValue uint8
	Kind          kind.Code
	ExtraBytes    uint32
	DetailRaw     [DetailBytesSize]byte
}

// Bytes encodes the Definition's identifier (one 4-byte code point per
// character, zero-padded to identifierWidth bytes) followed by its
// DefinitionFixedSize-byte fixed part.
//
// Returns errs.ErrIdentifierTooLong if the identifier doesn't fit within
// identifierWidth bytes.
func (d Definition) Bytes(identifierWidth int) ([]byte, error) {
	idBytes, err := encodeIdentifier(d.Identifier, identifierWidth)
	if err != nil {
		return nil, err
	}

	out := make([]byte, identifierWidth+DefinitionFixedSize)
	copy(out, idBytes)

	fixed := out[identifierWidth:]
	binary.LittleEndian.PutUint16(fixed[0:2], uint16(d.Options))
	fixed[2] = d.BytesPerValue
	fixed[3] = byte(d.Kind)
	binary.LittleEndian.PutUint32(fixed[4:8], d.ExtraBytes)
	copy(fixed[8:8+DetailBytesSize], d.DetailRaw[:])

	return out, nil
}

// ParseDefinition decodes one Definition from data, which must be exactly
// identifierWidth+DefinitionFixedSize bytes.
func ParseDefinition(data []byte, identifierWidth int) (Definition, error) {
	want := identifierWidth + DefinitionFixedSize
	if len(data) != want {
		return Definition{}, fmt.Errorf("%w: column definition", errs.ErrInvalidHeaderSize)
	}

	var d Definition
	d.Identifier = decodeIdentifier(data[:identifierWidth])

	fixed := data[identifierWidth:]
	d.Options = ColumnOptions(binary.LittleEndian.Uint16(fixed[0:2]))
	d.BytesPerValue = fixed[2]
	d.Kind = kind.Code(fixed[3])
	d.ExtraBytes = binary.LittleEndian.Uint32(fixed[4:8])
	copy(d.DetailRaw[:], fixed[8:8+DetailBytesSize])

	return d, nil
}

// encodeIdentifier writes s as identifierWidth/4 four-byte little-endian
// Unicode code points, zero-padded on the right.
func encodeIdentifier(s string, identifierWidth int) ([]byte, error) {
	runes := []rune(s)
	maxChars := identifierWidth / 4
	if len(runes) > maxChars {
		return nil, fmt.Errorf("%w: %q needs %d chars, width holds %d", errs.ErrIdentifierTooLong, s, len(runes), maxChars)
	}

	out := make([]byte, identifierWidth)
	for i, r := range runes {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], uint32(r))
	}

	return out, nil
}

// decodeIdentifier reverses encodeIdentifier, stopping at the first zero
// code point (the start of the zero-padding).
func decodeIdentifier(data []byte) string {
	var sb bytes.Buffer
	for i := 0; i+4 <= len(data); i += 4 {
		cp := binary.LittleEndian.Uint32(data[i : i+4])
		if cp == 0 {
			break
		}
		sb.WriteRune(rune(cp))
	}

	return sb.String()
}
