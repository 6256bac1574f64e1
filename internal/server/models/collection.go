package models

import "time"

// DataCollection is a single field submission made by a user, optionally
// referencing an uploaded photo.
type DataCollection struct {
	ID             int64
	CustomerName   string
	Description    string
	SubmissionDate time.Time
	UserID         int64
	PhotoID        *int64
	LocationData   JSONMap
	DeviceInfo     JSONMap
	IsSynchronized bool
	SyncError      *string
}

// DashboardStats aggregates a user's collection activity. Window counts
// are computed against UTC calendar boundaries.
type DashboardStats struct {
	TotalCollections     int64   `json:"total_collections"`
	CollectionsToday     int64   `json:"collections_today"`
	CollectionsThisWeek  int64   `json:"collections_this_week"`
	CollectionsThisMonth int64   `json:"collections_this_month"`
	PendingSync          int64   `json:"pending_sync"`
	LastSubmission       *string `json:"last_submission"`
}
