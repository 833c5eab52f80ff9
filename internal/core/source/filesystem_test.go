package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFilesystemSourceListFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "two")
	writeFile(t, dir, "a.md", "one")
	writeFile(t, dir, "ignore.bin", "nope")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	src := NewFilesystemSource(dir, []string{".txt", ".md"})
	files, err := src.List(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.md", files[0].ID)
	assert.Equal(t, "b.txt", files[1].ID)
}

func TestFilesystemSourceEmptyExtensionsMatchAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "one")
	writeFile(t, dir, "b.bin", "two")

	src := NewFilesystemSource(dir, nil)
	files, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFilesystemSourceExtensionNormalisation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.TXT", "upper")
	writeFile(t, dir, "b.md", "md")

	// Extensions with and without leading dots, mixed case.
	src := NewFilesystemSource(dir, []string{"txt", " .MD "})
	files, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFilesystemSourceRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")

	src := NewFilesystemSource(dir, nil)
	raw, err := src.Read(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), raw)

	_, err = src.Read(context.Background(), "missing.txt")
	assert.Error(t, err)
}

func TestFilesystemSourceListMissingFolder(t *testing.T) {
	src := NewFilesystemSource(filepath.Join(t.TempDir(), "absent"), nil)
	_, err := src.List(context.Background())
	assert.Error(t, err)
}
