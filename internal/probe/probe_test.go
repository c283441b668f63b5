package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3backup/internal/config"
)

func TestHasFilesEmptyDir(t *testing.T) {
	got, err := HasFiles(t.TempDir())
	require.NoError(t, err)
	assert.False(t, got)
}

func TestHasFilesRegularFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0644))

	got, err := HasFiles(dir)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestHasFilesDirectoriesOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	got, err := HasFiles(dir)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestHasFilesIgnoresToolArtifacts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{config.FileName, ".gitignore", "README.md", ".DS_Store"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	got, err := HasFiles(dir)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestHasFilesMissingDir(t *testing.T) {
	_, err := HasFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
