package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertFileExists checks that a file exists
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	ok, err := filesystem.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, ok, "expected %s to exist", path)
}

// AssertNoFile checks that a file does not exist
func AssertNoFile(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	ok, err := filesystem.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, ok, "expected %s to be absent", path)
}

// AssertFileContent checks file content
func AssertFileContent(t *testing.T, fs afero.Fs, path, expected string) {
	t.Helper()
	content, err := afero.ReadFile(fs, path)
	require.NoError(t, err, "reading %s", path)
	assert.Equal(t, expected, string(content))
}

// AssertMode checks the permission bits of a file
func AssertMode(t *testing.T, fs afero.Fs, path string, mode os.FileMode) {
	t.Helper()
	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, mode, info.Mode().Perm(), "mode of %s", path)
}

// ListFiles returns the base names of every regular file or link directly
// inside dir. A missing dir yields nil.
func ListFiles(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, filepath.Base(e.Name()))
		}
	}
	return names
}
