package container

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/numeric"
	"github.com/stretchr/testify/require"
)

func TestContainer_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.cpk")

	c := New(path)
	require.NoError(t, c.SetColumn("id", true, numeric.Uint32Array{1, 2, 3, 4}, nil))
	require.NoError(t, c.SetColumn("price", false, numeric.Uint32Array{10, 20, 30, 40}, &Options{
		BytesPerValue:   4,
		Kind:            kind.Uint,
		UseCompression:  true,
		CompressionMode: numeric.ModeElementWise,
	}))
	require.NoError(t, c.Write())

	readBack := New(path)
	require.NoError(t, readBack.Read())

	require.Equal(t, uint32(4), readBack.RowCount())
	require.Equal(t, []string{"id", "price"}, readBack.ColumnNames())

	id, err := readBack.GetColumn("id")
	require.NoError(t, err)
	require.Equal(t, numeric.Uint32Array{1, 2, 3, 4}, id)

	price, err := readBack.GetColumn("price")
	require.NoError(t, err)
	require.Equal(t, numeric.Uint32Array{10, 20, 30, 40}, price)
}

func TestContainer_RoundTrip_IndexAndDataOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordering.cpk")

	c := New(path)
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{1, 2}, nil))
	require.NoError(t, c.SetColumn("idx", true, numeric.Uint32Array{1, 2}, nil))
	require.NoError(t, c.SetColumn("b", false, numeric.Uint32Array{3, 4}, nil))

	require.Equal(t, []string{"a", "idx", "b"}, c.ColumnNames())

	require.NoError(t, c.Write())

	readBack := New(path)
	require.NoError(t, readBack.Read())

	require.Equal(t, []string{"idx", "a", "b"}, readBack.ColumnNames())
}

func TestContainer_RoundTrip_RoundedAndCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rounded.cpk")

	c := New(path)
	require.NoError(t, c.SetColumn("price", false, numeric.Float64Array{9.99, 10.01, 10.02, 9.50}, &Options{
		BytesPerValue:   8,
		Kind:            kind.Float,
		UseRounding:     true,
		Decimals:        2,
		UseCompression:  true,
		CompressionMode: numeric.ModeElementWise,
	}))
	require.NoError(t, c.Write())

	readBack := New(path)
	require.NoError(t, readBack.Read())

	price, err := readBack.GetColumn("price")
	require.NoError(t, err)
	require.Equal(t, numeric.Float64Array{9.99, 10.01, 10.02, 9.50}, price)
}

func TestContainer_ShapeMismatch(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "shape.cpk"))
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{1, 2, 3}, nil))

	err := c.SetColumn("b", false, numeric.Uint32Array{1, 2}, nil)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestContainer_GetColumn_NotFound(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing.cpk"))
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{1}, nil))

	_, err := c.GetColumn("nope")
	require.ErrorIs(t, err, errs.ErrColumnNotFound)
}

func TestContainer_Write_NoColumns(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "empty.cpk"))
	require.ErrorIs(t, c.Write(), errs.ErrNoColumns)
}

func TestContainer_Write_FailurePartialFileRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.cpk")

	c := New(path)
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{1, 2}, nil))

	// Force Definition() to fail during Write by giving the column an
	// invalid compression mode. The failure comes before the lock is
	// taken, so no file is ever created.
	col := c.columns["a"]
	col.UseCompression = true
	col.CompressionMode = numeric.Mode('?')

	err := c.Write()
	require.Error(t, err)
	require.NoFileExists(t, path)
}

func TestContainer_ReplaceColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replace.cpk")

	c := New(path)
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{1, 2}, nil))
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{9, 9}, nil))

	require.Equal(t, []string{"a"}, c.ColumnNames())
	require.NoError(t, c.Write())

	readBack := New(path)
	require.NoError(t, readBack.Read())
	values, err := readBack.GetColumn("a")
	require.NoError(t, err)
	require.Equal(t, numeric.Uint32Array{9, 9}, values)
}

func TestContainer_WriteTimeout_LockHeldElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.cpk")

	sentinel := path + ".lock"
	require.NoError(t, os.WriteFile(sentinel, []byte("owner"), 0o644))
	defer os.Remove(sentinel)

	c := New(path, WithWriteTimeout(150*time.Millisecond))
	require.NoError(t, c.SetColumn("a", false, numeric.Uint32Array{1}, nil))

	err := c.Write()
	require.ErrorIs(t, err, errs.ErrCouldNotAcquireLock)
}

func TestIdentifierWidth(t *testing.T) {
	require.Equal(t, 4, identifierWidth([]string{"a"}))
	require.Equal(t, 20, identifierWidth([]string{"price", "id"}))
	require.Equal(t, 0, identifierWidth(nil))
}

func TestCheckDuplicates(t *testing.T) {
	require.NoError(t, checkDuplicates([]string{"a", "b"}))

	err := checkDuplicates([]string{"a", "a"})
	require.True(t, errors.Is(err, errs.ErrDuplicateIdentifier))
}
