package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend(MemoryPath, nil)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.Equal(t, MemoryPath, backend.Path())
}

func TestOpenBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "movies")
	backend, err := OpenBackend(dir, nil)
	require.NoError(t, err)
	defer backend.Close()

	assert.DirExists(t, dir)
	assert.Equal(t, dir, backend.Path())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	backend, err := OpenBackend(file, nil)
	assert.Error(t, err)
	assert.Nil(t, backend)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend(MemoryPath, nil)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestMakeMovieKey(t *testing.T) {
	ns := makeMovieNamespace("scrapy", "movies")
	assert.Equal(t, "movrec\x06scrapy\x06movies", string(ns))
	assert.Equal(t, "movrec\x06scrapy\x06moviesInception", string(makeMovieKey("scrapy", "movies", "Inception")))

	// A separator inside a segment cannot move the segment boundary.
	assert.NotEqual(t,
		string(makeMovieKey("scrapy", "movies", "archive:Heat")),
		string(makeMovieKey("scrapy", "movies:archive", "Heat")))
}
