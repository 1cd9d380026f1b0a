package section

import (
	"testing"

	"github.com/colpack/colpack/errs"
	"github.com/stretchr/testify/require"
)

func TestColumnOptions_Flags(t *testing.T) {
	o := OptionIsIndex | OptionUseFloatingPointRounding
	require.True(t, o.IsIndex())
	require.True(t, o.UseFloatingPointRounding())
	require.False(t, o.UseCompression())
	require.False(t, o.UseHashTable())
	require.NoError(t, o.Validate())
}

func TestColumnOptions_HashTableRejected(t *testing.T) {
	err := OptionUseHashTable.Validate()
	require.ErrorIs(t, err, errs.ErrHashTableUnsupported)
}

func TestColumnOptions_ReservedBitsRejected(t *testing.T) {
	err := ColumnOptions(1 << 15).Validate()
	require.ErrorIs(t, err, errs.ErrReservedOptionBits)
}
