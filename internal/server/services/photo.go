package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/logging"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/storage"
)

// MaxFileSize is the upload cap for a single photo, in bytes.
const MaxFileSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// PhotoService stores uploaded photos: bytes in a BlobStore, metadata in
// Postgres.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	logger      logging.Logger
	now         func() time.Time
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, logger logging.Logger) *PhotoService {
	return &PhotoService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger.With("module", "photos"),
		now:         time.Now,
	}
}

// IsAllowed reports whether the filename carries an accepted image
// extension. The check is case-insensitive.
func IsAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// GenerateUniqueName builds a collision-resistant stored filename from a UTC
// timestamp, a random hex token, and the lowercased original extension.
func (s *PhotoService) GenerateUniqueName(originalFilename string) (string, error) {
	token, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s_%s%s", s.now().UTC().Format("20060102_150405"), token, ext), nil
}

// Save validates, stores, and records an uploaded photo. If the metadata
// insert fails after the blob was written, the blob is removed again so
// storage does not accumulate orphans.
func (s *PhotoService) Save(ctx context.Context, originalFilename, contentType string, data []byte, metadata models.JSONMap) (*models.Photo, error) {
	if !IsAllowed(originalFilename) {
		return nil, fmt.Errorf("%w: file type not allowed", common.ErrorValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", common.ErrorValidation)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrorValidation, int64(MaxFileSize))
	}

	name, err := s.GenerateUniqueName(originalFilename)
	if err != nil {
		return nil, common.ErrorInternal
	}

	path, err := s.blobs.Save(ctx, name, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("error storing file: %v", err)
	}

	photo := &models.Photo{
		Filename:         name,
		OriginalFilename: originalFilename,
		FilePath:         path,
		FileSize:         int64(len(data)),
		MimeType:         contentType,
		Metadata:         metadata,
	}

	repo := s.repomanager.Photos(s.db)
	created, err := repo.Create(ctx, photo)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			s.logger.Error(ctx, "removing stored file after failed insert", "path", path, "error", delErr)
		}
		return nil, fmt.Errorf("error saving photo: %v", err)
	}

	return created, nil
}

// GetByID loads photo metadata by primary key.
func (s *PhotoService) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	repo := s.repomanager.Photos(s.db)
	photo, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return photo, nil
}

// Open returns the photo content stream for download. The caller closes it.
func (s *PhotoService) Open(ctx context.Context, photo *models.Photo) (io.ReadCloser, error) {
	return s.blobs.Open(ctx, photo.FilePath)
}
