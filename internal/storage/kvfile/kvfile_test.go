package kvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/lessonstore/internal/storage"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	kv, err := Open(filepath.Join(t.TempDir(), "state.json"), 0)
	require.NoError(t, err)

	_, ok := kv.Get("anything")
	assert.False(t, ok)
}

func TestSetGet_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, kv.Set("lessons", `[{"id":"a"}]`))

	reopened, err := Open(path, 0)
	require.NoError(t, err)
	value, ok := reopened.Get("lessons")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)
}

func TestSet_CapacityExceeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := Open(path, 64)
	require.NoError(t, err)
	require.NoError(t, kv.Set("lessons", "small"))

	err = kv.Set("lessons", strings.Repeat("x", 256))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCapacityExceeded)

	// Both the in-memory value and the file keep the previous content.
	value, ok := kv.Get("lessons")
	require.True(t, ok)
	assert.Equal(t, "small", value)

	reopened, err := Open(path, 64)
	require.NoError(t, err)
	value, ok = reopened.Get("lessons")
	require.True(t, ok)
	assert.Equal(t, "small", value)
}

func TestSet_NoLimitWhenZero(t *testing.T) {
	kv, err := Open(filepath.Join(t.TempDir(), "state.json"), 0)
	require.NoError(t, err)

	assert.NoError(t, kv.Set("big", strings.Repeat("x", 1<<16)))
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := Open(path, 0)
	assert.Error(t, err)
}
