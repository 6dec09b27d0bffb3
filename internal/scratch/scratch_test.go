package scratch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_WriteAndCleanup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "temp")
	dir, err := Open(path)
	require.NoError(t, err)

	first, err := dir.WriteBatch("Hello\n------\n")
	require.NoError(t, err)
	second, err := dir.WriteBatch("World\n------\n")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, ".txt"))
	assert.Equal(t, path, filepath.Dir(first))

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "Hello\n------\n", string(content))

	require.NoError(t, dir.Cleanup())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "scratch directory must be gone")
}

func TestDir_RemoveSingleBatch(t *testing.T) {
	t.Parallel()

	dir, err := Open(filepath.Join(t.TempDir(), "temp"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Cleanup() })

	name, err := dir.WriteBatch("x")
	require.NoError(t, err)
	require.NoError(t, dir.Remove(name))
	require.NoError(t, dir.Remove(name), "removing twice is not an error")
}

func TestOpen_LockedByAnotherRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "temp")
	first, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Cleanup() })

	_, err = Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestCleanup_Nil(t *testing.T) {
	t.Parallel()

	var dir *Dir
	assert.NoError(t, dir.Cleanup())
}

func TestCleanup_KeepsExistingDirectory(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	foreign := filepath.Join(path, "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0o644))

	dir, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, dir.Path())
	left, err := dir.WriteBatch("Hello\n------\n")
	require.NoError(t, err)

	require.NoError(t, dir.Cleanup())

	content, err := os.ReadFile(foreign)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
	_, err = os.Stat(left)
	assert.True(t, os.IsNotExist(err), "batch file must be removed")
	_, err = os.Stat(filepath.Join(path, lockName))
	assert.True(t, os.IsNotExist(err), "lock file must be removed")

	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCleanup_CreatedDirectoryWithForeignFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "temp")
	dir, err := Open(path)
	require.NoError(t, err)

	foreign := filepath.Join(path, "dropped-in.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("x"), 0o644))

	require.NoError(t, dir.Cleanup())
	_, err = os.Stat(foreign)
	assert.NoError(t, err)
}
