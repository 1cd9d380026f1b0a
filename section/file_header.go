// Package section implements the fixed-size binary records that make up a
// container file: the file header and the per-column header table. Each
// record has a Bytes encoder and a matching parser; the column records'
// encoders take the variable field width and can fail.
package section

import (
	"encoding/binary"
	"fmt"

	"github.com/colpack/colpack/errs"
)

// FileHeaderSize is the on-disk size of FileHeader in bytes.
const FileHeaderSize = 10

// FileHeader is the 10-byte record at the start of every container file.
type FileHeader struct {
	// Version is the container format version. Readers reject any version
	// they don't recognize.
	Version uint8
	// GlobalOptions is reserved for future use and must be zero.
	GlobalOptions uint16
	// ColumnCount is the number of columns in the column header table,
	// index columns first, then data columns.
	ColumnCount uint16
	// RowCount is the number of rows every column holds.
	RowCount uint32
	// IdentifierWidth is the fixed byte width of every column identifier,
	// computed at write time as 4 * the longest column name.
	IdentifierWidth uint8
}

// CurrentVersion is the version this package writes and the only version it
// currently reads.
const CurrentVersion uint8 = 1

// Parse decodes a FileHeader from exactly FileHeaderSize bytes.
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != FileHeaderSize {
		return fmt.Errorf("%w: file header", errs.ErrInvalidHeaderSize)
	}

	h.Version = data[0]
	h.GlobalOptions = binary.LittleEndian.Uint16(data[1:3])
	h.ColumnCount = binary.LittleEndian.Uint16(data[3:5])
	h.RowCount = binary.LittleEndian.Uint32(data[5:9])
	h.IdentifierWidth = data[9]

	return nil
}

// Bytes encodes the FileHeader to its FileHeaderSize-byte representation.
func (h *FileHeader) Bytes() []byte {
	b := make([]byte, FileHeaderSize)

	b[0] = h.Version
	binary.LittleEndian.PutUint16(b[1:3], h.GlobalOptions)
	binary.LittleEndian.PutUint16(b[3:5], h.ColumnCount)
	binary.LittleEndian.PutUint32(b[5:9], h.RowCount)
	b[9] = h.IdentifierWidth

	return b
}
