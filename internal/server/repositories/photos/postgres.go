package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/dbx"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
)

// PostgresRepository implements photo metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). The image bytes themselves live in blob storage.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {

	query :=
		`INSERT INTO photos (filename, original_filename, file_path, file_size, mime_type, metadata)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		photo.Filename, photo.OriginalFilename, photo.FilePath,
		photo.FileSize, photo.MimeType, photo.Metadata).
		Scan(&photo.ID, &photo.UploadedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query :=
		`SELECT id, filename, original_filename, file_path, file_size, mime_type, uploaded_at, metadata
		 FROM photos
		 WHERE id = $1
		 `

	photo := &models.Photo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID, &photo.Filename, &photo.OriginalFilename, &photo.FilePath,
		&photo.FileSize, &photo.MimeType, &photo.UploadedAt, &photo.Metadata)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}
