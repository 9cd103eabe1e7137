package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("hello world")

	require.NoError(t, afero.WriteFile(fs, testFile, testContent, 0644))

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	content, err := afero.ReadFile(fs, testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	require.NoError(t, fs.Remove(testFile))
	_, err = fs.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestLinks_OS(t *testing.T) {
	fs := NewOS()
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, afero.WriteFile(fs, target, []byte("x"), 0644))

	t.Run("hard_link", func(t *testing.T) {
		hard := filepath.Join(dir, "hard")
		require.NoError(t, Link(fs, target, hard))
		content, err := afero.ReadFile(fs, hard)
		require.NoError(t, err)
		assert.Equal(t, "x", string(content))
		assert.False(t, IsSymlink(fs, hard))
	})

	t.Run("symlink", func(t *testing.T) {
		link := filepath.Join(dir, "link")
		require.NoError(t, Symlink(fs, target, link))
		assert.True(t, IsSymlink(fs, link))

		got, err := Readlink(fs, link)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("dangling_symlink_exists", func(t *testing.T) {
		link := filepath.Join(dir, "dangling")
		require.NoError(t, Symlink(fs, filepath.Join(dir, "missing"), link))
		ok, err := Exists(fs, link)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestLinks_Memory(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, afero.WriteFile(fs, "/a", []byte("x"), 0644))

	assert.ErrorIs(t, Link(fs, "/a", "/b"), ErrUnsupported)
	assert.ErrorIs(t, Symlink(fs, "/a", "/c"), ErrUnsupported)
	_, err := Readlink(fs, "/a")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExistsAndRemoveIfExists(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, afero.WriteFile(fs, "/dir/file", []byte("x"), 0644))

	ok, err := Exists(fs, "/dir/file")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, RemoveIfExists(fs, "/dir/file"))
	require.NoError(t, RemoveIfExists(fs, "/dir/file"))

	ok, err = Exists(fs, "/dir/file")
	require.NoError(t, err)
	assert.False(t, ok)
}
