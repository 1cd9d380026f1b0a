package colpack

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colpack/colpack/container"
	"github.com/colpack/colpack/kind"
	"github.com/colpack/colpack/numeric"
)

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.cpk")

	c := Create(path)
	require.NoError(t, c.SetColumn("id", true, numeric.Uint32Array{1, 2, 3}, nil))
	require.NoError(t, c.SetColumn("price", false, numeric.Float64Array{9.99, 1.5, 3.25}, &container.Options{
		BytesPerValue:   8,
		Kind:            kind.Float,
		UseCompression:  true,
		CompressionMode: numeric.ModeElementWise,
	}))
	require.NoError(t, c.Write())

	opened, err := Open(path)
	require.NoError(t, err)

	price, err := opened.GetColumn("price")
	require.NoError(t, err)
	require.Equal(t, numeric.Float64Array{9.99, 1.5, 3.25}, price)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.cpk"))
	require.Error(t, err)
}

func TestMustKind(t *testing.T) {
	require.Equal(t, kind.Uint, MustKind(kind.Uint, 32))

	require.Panics(t, func() {
		MustKind(kind.Uint, 3)
	})
}
