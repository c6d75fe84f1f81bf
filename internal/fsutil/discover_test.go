package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.json"))
	touch(t, filepath.Join(dir, "a.json"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "nested", "c.json"))

	files, err := DiscoverFiles(dir, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "nested", "c.json"),
	}, files)
}

func TestDiscoverFilesSingleFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "doc.json")
	touch(t, file)

	files, err := DiscoverFiles(file, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}

func TestDiscoverFilesMissingRoot(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "absent"), ".json")
	assert.Error(t, err)
}

func TestDiscoverFilesEmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = DiscoverFiles(t.TempDir(), "")
	})
}
