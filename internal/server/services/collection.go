package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/dbx"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/repomanager"
)

// defaultListLimit caps how many collections a single listing returns.
const defaultListLimit = 100

// CollectionService manages field submissions and the dashboard aggregates
// computed over them.
type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager) *CollectionService {
	return &CollectionService{db: db, repomanager: m, now: time.Now}
}

// CreateCollectionInput carries the client-supplied fields of a submission.
type CreateCollectionInput struct {
	CustomerName string
	Description  string
	PhotoID      *int64
	LocationData models.JSONMap
	DeviceInfo   models.JSONMap
}

// Create records a new submission for userID. The user and the optional
// photo reference are checked inside the same transaction as the insert;
// a missing reference yields common.ErrorNotFound.
func (s *CollectionService) Create(ctx context.Context, userID int64, in CreateCollectionInput) (*models.DataCollection, error) {
	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", common.ErrorValidation)
	}

	var created *models.DataCollection
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repomanager.Users(tx)
		if _, err := userRepo.GetByID(ctx, userID); err != nil {
			return err
		}

		if in.PhotoID != nil {
			photoRepo := s.repomanager.Photos(tx)
			if _, err := photoRepo.GetByID(ctx, *in.PhotoID); err != nil {
				return err
			}
		}

		collection := &models.DataCollection{
			CustomerName:   customerName,
			Description:    in.Description,
			SubmissionDate: s.now().UTC(),
			UserID:         userID,
			PhotoID:        in.PhotoID,
			LocationData:   in.LocationData,
			DeviceInfo:     in.DeviceInfo,
		}

		repo := s.repomanager.Collections(tx)
		var createErr error
		created, createErr = repo.Create(ctx, collection)
		return createErr
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating collection: %v", err)
	}

	return created, nil
}

// GetByID loads a single submission.
func (s *CollectionService) GetByID(ctx context.Context, id int64) (*models.DataCollection, error) {
	repo := s.repomanager.Collections(s.db)
	collection, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return collection, nil
}

// ListByUser returns the user's submissions, newest first. Limits outside
// (0, defaultListLimit] fall back to the default.
func (s *CollectionService) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.DataCollection, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	repo := s.repomanager.Collections(s.db)
	list, err := repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing collections: %v", err)
	}
	return list, nil
}

// MarkSynchronized flips the sync flag on a submission and records the
// optional sync error message.
func (s *CollectionService) MarkSynchronized(ctx context.Context, id int64, synchronized bool, syncError *string) error {
	repo := s.repomanager.Collections(s.db)
	if err := repo.SetSyncStatus(ctx, id, synchronized, syncError); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating sync status: %v", err)
	}
	return nil
}

// dayStartUTC returns midnight UTC of the day containing t.
func dayStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStartUTC returns midnight UTC of the most recent Monday.
func weekStartUTC(t time.Time) time.Time {
	day := dayStartUTC(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// monthStartUTC returns midnight UTC of the first day of the month.
func monthStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DashboardStats aggregates the user's submissions. Day, week, and month
// windows are anchored to UTC calendar boundaries at the time of the call;
// nothing is cached.
func (s *CollectionService) DashboardStats(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	repo := s.repomanager.Collections(s.db)
	now := s.now().UTC()

	total, err := repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting collections: %v", err)
	}
	today, err := repo.CountByUserSince(ctx, userID, dayStartUTC(now))
	if err != nil {
		return nil, fmt.Errorf("error counting collections: %v", err)
	}
	week, err := repo.CountByUserSince(ctx, userID, weekStartUTC(now))
	if err != nil {
		return nil, fmt.Errorf("error counting collections: %v", err)
	}
	month, err := repo.CountByUserSince(ctx, userID, monthStartUTC(now))
	if err != nil {
		return nil, fmt.Errorf("error counting collections: %v", err)
	}
	pending, err := repo.CountPendingSync(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting pending sync: %v", err)
	}
	last, err := repo.LastSubmission(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading last submission: %v", err)
	}

	stats := &models.DashboardStats{
		TotalCollections:     total,
		CollectionsToday:     today,
		CollectionsThisWeek:  week,
		CollectionsThisMonth: month,
		PendingSync:          pending,
	}
	if last != nil {
		formatted := last.UTC().Format(time.RFC3339)
		stats.LastSubmission = &formatted
	}

	return stats, nil
}
