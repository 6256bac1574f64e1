// Package storage abstracts where uploaded photo bytes live. The metadata
// row in Postgres keeps the path returned by Save; everything else about
// the backend stays behind the BlobStore interface.
package storage

import (
	"context"
	"io"
)

type BlobStore interface {
	// Save persists data under a backend-chosen path derived from name
	// and returns that path.
	Save(ctx context.Context, name string, contentType string, data []byte) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
