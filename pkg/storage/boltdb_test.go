package storage

import (
	"testing"

	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestThumbs(t *testing.T) {
	store := newTestStore(t)
	id := types.ClipID(2, 3)

	_, err := store.GetThumb(id)
	assert.ErrorIs(t, err, ErrThumbNotFound)

	require.NoError(t, store.PutThumb(id, []byte("png-1")))
	require.NoError(t, store.PutThumb(id, []byte("png-2")))
	require.NoError(t, store.PutThumb(types.ClipID(1, 1), []byte("other")))

	data, err := store.GetThumb(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-2"), data)

	ids, err := store.ListThumbs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.EntityID{types.ClipID(1, 1), id}, ids)

	require.NoError(t, store.DeleteThumb(id))
	_, err = store.GetThumb(id)
	assert.ErrorIs(t, err, ErrThumbNotFound)
}

func TestVariables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBoltStore(dir)
	require.NoError(t, err)

	empty, err := store.LoadVariables()
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.SaveVariables(map[string]string{"selectedDeck": "2"}))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	values, err := reopened.LoadVariables()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"selectedDeck": "2"}, values)
}

func TestNewBoltStoreBadDir(t *testing.T) {
	_, err := NewBoltStore("/nonexistent/dir/for/arenafeed")
	assert.Error(t, err)
}
