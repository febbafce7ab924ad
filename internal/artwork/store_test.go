package artwork

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOverwritesFixedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	first, err := store.Save([]byte("cover-1"))
	require.NoError(t, err)

	second, err := store.Save([]byte("cover-2"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "artwork URI should be stable across saves")
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(dir, FileName)), second)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "cover-2", string(data))
}

func TestSaveEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	uri, err := store.Save(nil)
	assert.ErrorIs(t, err, ErrEmptyArtwork)
	assert.Empty(t, uri)
}

func TestSaveFailure(t *testing.T) {
	// A regular file where the cache directory should be makes every write fail
	parent := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	store := NewStore(parent)
	_, err := store.Save([]byte("cover"))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Clear(), "clearing an empty store should succeed")

	_, err := store.Save([]byte("cover"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}
