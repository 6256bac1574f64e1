package photos

import (
	"context"

	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
}
