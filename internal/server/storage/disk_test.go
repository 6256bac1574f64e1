package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_SaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	data := []byte("jpeg bytes")
	path, err := store.Save(context.Background(), "20250601_120000_a1b2c3d4e5f60718.jpg", "image/jpeg", data)
	require.NoError(t, err)
	assert.Equal(t, "20250601_120000_a1b2c3d4e5f60718.jpg", path)

	rc, err := store.Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDiskStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "a.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), path))

	_, err = os.Stat(filepath.Join(dir, path))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_OpenMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "missing.jpg")
	assert.Error(t, err)
}

func TestNewDiskStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "photos")

	_, err := NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
