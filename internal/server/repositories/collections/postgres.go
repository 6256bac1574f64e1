package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/dbx"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
)

// PostgresRepository implements collection storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, collection *models.DataCollection) (*models.DataCollection, error) {

	query :=
		`INSERT INTO data_collections (customer_name, description, submission_date, user_id, photo_id, location_data, device_info)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		collection.CustomerName, collection.Description, collection.SubmissionDate,
		collection.UserID, collection.PhotoID, collection.LocationData, collection.DeviceInfo).
		Scan(&collection.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collection, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.DataCollection, error) {
	query :=
		`SELECT id, customer_name, description, submission_date, user_id, photo_id, location_data, device_info, is_synchronized, sync_error
		 FROM data_collections
		 WHERE id = $1
		 `

	c := &models.DataCollection{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.CustomerName, &c.Description, &c.SubmissionDate, &c.UserID,
		&c.PhotoID, &c.LocationData, &c.DeviceInfo, &c.IsSynchronized, &c.SyncError)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

// ListByUser returns the user's collections, most recent submission first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.DataCollection, error) {
	query :=
		`SELECT id, customer_name, description, submission_date, user_id, photo_id, location_data, device_info, is_synchronized, sync_error
		 FROM data_collections
		 WHERE user_id = $1
		 ORDER BY submission_date DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.DataCollection
	for rows.Next() {
		var c models.DataCollection
		if err := rows.Scan(
			&c.ID, &c.CustomerName, &c.Description, &c.SubmissionDate, &c.UserID,
			&c.PhotoID, &c.LocationData, &c.DeviceInfo, &c.IsSynchronized, &c.SyncError); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	query :=
		`SELECT count(*) FROM data_collections
		 WHERE user_id = $1
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	query :=
		`SELECT count(*) FROM data_collections
		 WHERE user_id = $1 AND submission_date >= $2
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountPendingSync(ctx context.Context, userID int64) (int64, error) {
	query :=
		`SELECT count(*) FROM data_collections
		 WHERE user_id = $1 AND is_synchronized = false
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// LastSubmission returns the newest submission timestamp for the user, or
// nil when the user has no collections.
func (r *PostgresRepository) LastSubmission(ctx context.Context, userID int64) (*time.Time, error) {
	query :=
		`SELECT max(submission_date) FROM data_collections
		 WHERE user_id = $1
		 `

	var last sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&last); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *PostgresRepository) SetSyncStatus(ctx context.Context, id int64, synchronized bool, syncError *string) error {
	query :=
		`UPDATE data_collections SET is_synchronized = $1, sync_error = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, synchronized, syncError, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
