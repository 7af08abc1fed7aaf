package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-lang/feel/internal/store"
)

func TestSaveAndLoad(t *testing.T) {
	lib, err := store.Open(":memory:")
	require.NoError(t, err)
	defer lib.Close()

	require.NoError(t, lib.Save("discount", `if age < 18 then 0.1 else 0`))

	entry, err := lib.Load("discount")
	require.NoError(t, err)
	assert.Equal(t, "discount", entry.Name)
	assert.Equal(t, `if age < 18 then 0.1 else 0`, entry.Text)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestSaveOverwritesExisting(t *testing.T) {
	lib, err := store.Open(":memory:")
	require.NoError(t, err)
	defer lib.Close()

	require.NoError(t, lib.Save("x", "1 + 1"))
	first, err := lib.Load("x")
	require.NoError(t, err)

	require.NoError(t, lib.Save("x", "2 + 2"))
	second, err := lib.Load("x")
	require.NoError(t, err)

	assert.Equal(t, "2 + 2", second.Text)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	lib, err := store.Open(":memory:")
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Load("nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListOrdersByMostRecentlyUpdated(t *testing.T) {
	lib, err := store.Open(":memory:")
	require.NoError(t, err)
	defer lib.Close()

	require.NoError(t, lib.Save("a", "1"))
	require.NoError(t, lib.Save("b", "2"))
	require.NoError(t, lib.Save("a", "3")) // touch a's updated_at again

	entries, err := lib.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
}

func TestDeleteIsIdempotent(t *testing.T) {
	lib, err := store.Open(":memory:")
	require.NoError(t, err)
	defer lib.Close()

	require.NoError(t, lib.Save("x", "1"))
	require.NoError(t, lib.Delete("x"))
	require.NoError(t, lib.Delete("x"))

	_, err = lib.Load("x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	lib, err := store.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, lib.Close())

	err = lib.Save("x", "1")
	assert.ErrorIs(t, err, store.ErrStoreClosed)
}
