package collections

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, collection *models.DataCollection) (*models.DataCollection, error)
	GetByID(ctx context.Context, id int64) (*models.DataCollection, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.DataCollection, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	CountByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error)
	CountPendingSync(ctx context.Context, userID int64) (int64, error)
	LastSubmission(ctx context.Context, userID int64) (*time.Time, error)
	SetSyncStatus(ctx context.Context, id int64, synchronized bool, syncError *string) error
}
