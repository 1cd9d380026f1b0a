// Package container implements the file-level container format: the file
// header, the column-header table, the concatenated column payloads, and
// the concurrency-safe read/write protocol built on lockfile. It is the
// outermost layer of the codec — the thing a caller actually opens, mutates
// with SetColumn, and writes or reads.
package container

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/colpack/colpack/column"
	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/internal/options"
	"github.com/colpack/colpack/internal/pool"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/lockfile"
	"github.com/colpack/colpack/numeric"
	"github.com/colpack/colpack/section"
)

// Container is a set of named columns, partitioned into index and data
// columns, all sharing one row count, backed by a single file path.
//
// A Container is mutated freely via SetColumn until Write is called; after
// Read, it is read-only until the next SetColumn. See package column for
// the per-column codec this type orchestrates across the whole file.
type Container struct {
	path string

	rowCount    uint32
	rowCountSet bool

	readTimeout  time.Duration
	writeTimeout time.Duration

	// order preserves insertion order within each partition; index columns
	// are written before data columns regardless of the order the two
	// partitions were interleaved in.
	order   []string
	columns map[string]*column.Column
}

// Option configures a Container constructed via New.
type Option = options.Option[*Container]

// WithReadTimeout overrides lockfile.DefaultReadTimeout for this container's
// Read calls.
func WithReadTimeout(d time.Duration) Option {
	return options.NoError(func(c *Container) { c.readTimeout = d })
}

// WithWriteTimeout overrides lockfile.DefaultWriteTimeout for this
// container's Write calls.
func WithWriteTimeout(d time.Duration) Option {
	return options.NoError(func(c *Container) { c.writeTimeout = d })
}

// New creates an empty Container backed by the file at path. The file
// isn't touched until Read or Write is called.
func New(path string, opts ...Option) *Container {
	c := &Container{
		path:    path,
		columns: make(map[string]*column.Column),
	}
	_ = options.Apply(c, opts...)
	return c
}

func (c *Container) lockOptions() []lockfile.Option {
	var opts []lockfile.Option
	if c.readTimeout > 0 {
		opts = append(opts, lockfile.WithReadTimeout(c.readTimeout))
	}
	if c.writeTimeout > 0 {
		opts = append(opts, lockfile.WithWriteTimeout(c.writeTimeout))
	}
	return opts
}

// Options configures an optional column being added via SetColumn.
type Options struct {
	BytesPerValue      int
	Kind               kind.Code
	UseCompression     bool
	CompressionMode    numeric.Mode
	UseRounding        bool
	Decimals           uint8
	UseByteCompression bool
}

// SetColumn stores or replaces a column's values. If opts is nil, the
// column defaults to the minimal bytes_per_value for its values' Go type,
// no compression, no rounding.
//
// Returns errs.ErrShapeMismatch if the container already has a row count
// (from a prior SetColumn or a Read) and values.Len() disagrees. A second
// SetColumn call for the same identifier replaces the prior column,
// matching the reference implementation's "stores or replaces" semantics.
func (c *Container) SetColumn(name string, isIndex bool, values numeric.Array, opts *Options) error {
	if c.rowCountSet && uint32(values.Len()) != c.rowCount {
		return fmt.Errorf("%w: column %q has %d rows, container has %d", errs.ErrShapeMismatch, name, values.Len(), c.rowCount)
	}

	o := Options{BytesPerValue: values.Bits() / 8, Kind: values.Kind()}
	if opts != nil {
		o = *opts
	}

	col, err := column.New(name, isIndex, o.Kind, o.BytesPerValue, values)
	if err != nil {
		return err
	}
	col.UseCompression = o.UseCompression
	col.CompressionMode = o.CompressionMode
	col.UseRounding = o.UseRounding
	col.Decimals = o.Decimals
	col.UseByteCompression = o.UseByteCompression

	if _, exists := c.columns[name]; !exists {
		c.order = append(c.order, name)
	}
	c.columns[name] = col

	if !c.rowCountSet {
		c.rowCount = uint32(values.Len())
		c.rowCountSet = true
	}

	return nil
}

// GetColumn decodes and returns a copy of the named column's values.
//
// Returns errs.ErrColumnNotFound if no column with that identifier exists.
func (c *Container) GetColumn(name string) (numeric.Array, error) {
	col, ok := c.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name)
	}
	if err := col.Encode(); err != nil {
		return nil, err
	}
	if err := col.Decode(); err != nil {
		return nil, err
	}
	v := col.Values()
	return numeric.FromBytes(v.Kind(), v.Bits(), v.Bytes())
}

// ColumnNames returns the container's column identifiers: in insertion
// order for columns added with SetColumn (index and data columns
// interleaved as they were added), and in file order (index columns first)
// for columns loaded by Read.
func (c *Container) ColumnNames() []string {
	return append([]string(nil), c.order...)
}

// RowCount returns the container's common row count.
func (c *Container) RowCount() uint32 { return c.rowCount }

func (c *Container) partitions() (indexNames, dataNames []string) {
	for _, name := range c.order {
		if c.columns[name].IsIndex {
			indexNames = append(indexNames, name)
		} else {
			dataNames = append(dataNames, name)
		}
	}
	return
}

// identifierWidth computes 4*max(len(name)) over names. The identifier
// width is driven by character count, not byte count, since identifiers
// are encoded as one 4-byte code point per character.
func identifierWidth(names []string) int {
	maxLen := 0
	for _, n := range names {
		if l := len([]rune(n)); l > maxLen {
			maxLen = l
		}
	}
	return maxLen * 4
}

// Write validates the container, computes identifier_width, acquires an
// exclusive lock, and writes the file header, column-header table (index
// columns first, then data columns, each partition in insertion order),
// then each column's payload bytes.
//
// If writing fails and this call created the file (it didn't already
// exist), the partial file is removed so a failed write never leaves a
// corrupt file in its place.
func (c *Container) Write() error {
	if len(c.order) == 0 {
		return errs.ErrNoColumns
	}

	indexNames, dataNames := c.partitions()
	allNames := append(append([]string{}, indexNames...), dataNames...)

	if err := checkDuplicates(allNames); err != nil {
		return err
	}

	idWidth := identifierWidth(allNames)
	if idWidth == 0 {
		return errs.ErrIdentifierByteRepresentation
	}

	defs := make([]section.Definition, 0, len(allNames))
	payloads := make([][]byte, 0, len(allNames))
	for _, name := range allNames {
		col := c.columns[name]
		def, err := col.Definition()
		if err != nil {
			return fmt.Errorf("container %q: %w", c.path, err)
		}
		payload, err := col.PayloadBytes()
		if err != nil {
			return fmt.Errorf("container %q: %w", c.path, err)
		}
		defs = append(defs, def)
		payloads = append(payloads, payload)
	}

	preexisting := fileExists(c.path)

	lock := lockfile.New(c.path, c.lockOptions()...)
	handle, err := lock.AcquireExclusive()
	if err != nil {
		return err
	}
	defer handle.Close()

	header := section.FileHeader{
		Version:         section.CurrentVersion,
		GlobalOptions:   0,
		ColumnCount:     uint16(len(allNames)),
		RowCount:        c.rowCount,
		IdentifierWidth: uint8(idWidth),
	}

	if err := writeAll(handle.File(), idWidth, header, defs, payloads); err != nil {
		if !preexisting {
			os.Remove(c.path)
		}
		return err
	}

	return nil
}

// writeAll assembles the file header, column-header table, and every
// payload into one pooled buffer, then issues a single write so a writer
// never leaves a file half-updated across several syscalls.
func writeAll(f *os.File, idWidth int, header section.FileHeader, defs []section.Definition, payloads [][]byte) error {
	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)

	buf.MustWrite(header.Bytes())

	for _, def := range defs {
		b, err := def.Bytes(idWidth)
		if err != nil {
			return err
		}
		buf.MustWrite(b)
	}

	for _, payload := range payloads {
		buf.MustWrite(payload)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}

	return nil
}

// Read acquires a shared lock, reads the file header, the column-header
// table, and each column's raw payload bytes, and populates the
// container's in-memory column set. Each column's payload is decoded into
// values as it is loaded; GetColumn decodes again from the residual.
func (c *Container) Read() error {
	lock := lockfile.New(c.path, c.lockOptions()...)
	handle, err := lock.AcquireShared()
	if err != nil {
		return err
	}
	defer handle.Close()

	f := handle.File()

	headerBytes := make([]byte, section.FileHeaderSize)
	if _, err := io.ReadFull(f, headerBytes); err != nil {
		return fmt.Errorf("container %q: reading file header: %w", c.path, err)
	}

	var header section.FileHeader
	if err := header.Parse(headerBytes); err != nil {
		return err
	}
	if header.Version != section.CurrentVersion {
		return fmt.Errorf("colpack: unsupported container version %d", header.Version)
	}

	defSize := int(header.IdentifierWidth) + section.DefinitionFixedSize
	defs := make([]section.Definition, header.ColumnCount)
	cols := make([]*column.Column, header.ColumnCount)

	for i := range defs {
		raw := make([]byte, defSize)
		if _, err := io.ReadFull(f, raw); err != nil {
			return fmt.Errorf("container %q: reading column header %d: %w", c.path, i, err)
		}
		def, err := section.ParseDefinition(raw, int(header.IdentifierWidth))
		if err != nil {
			return err
		}
		defs[i] = def

		col, err := column.FromDefinition(def)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	order := make([]string, 0, len(defs))
	columns := make(map[string]*column.Column, len(defs))

	for i, def := range defs {
		payload := make([]byte, payloadLength(cols[i], int(header.RowCount)))
		if _, err := io.ReadFull(f, payload); err != nil {
			return fmt.Errorf("container %q: reading column %q payload: %w", c.path, def.Identifier, err)
		}

		if err := cols[i].LoadPayload(payload); err != nil {
			return fmt.Errorf("container %q: column %q: %w", c.path, def.Identifier, err)
		}

		order = append(order, def.Identifier)
		columns[def.Identifier] = cols[i]
	}

	c.order = order
	c.columns = columns
	c.rowCount = header.RowCount
	c.rowCountSet = true

	return nil
}

// payloadLength returns the on-disk byte count for col's payload: the
// compressed length recorded in extra_bytes if byte compression is
// enabled, else residual element count × disk width.
func payloadLength(col *column.Column, rowCount int) int {
	if col.UseByteCompression {
		return col.PayloadLen()
	}
	return col.ResidualLen(rowCount) * col.DiskWidth()
}

func checkDuplicates(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateIdentifier, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
