package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/fieldkeeper/internal/filex"
)

// DiskStore keeps photo blobs as plain files under a root directory.
type DiskStore struct {
	root string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o660); err != nil {
		return "", err
	}
	return name, nil
}

func (s *DiskStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, path))
}

func (s *DiskStore) Delete(ctx context.Context, path string) error {
	return os.Remove(filepath.Join(s.root, path))
}
