package sessionfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)

	saved := State{Token: "tok-1", Email: "ann@example.com", SavedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Save(saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.Load()
	assert.Error(t, err)
}

func TestStore_EmptyTokenIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":""}`), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)
	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}
