package models

import "time"

// UserResponse is the public projection of a User. The password hash is
// never included and timestamps are rendered as RFC 3339 strings.
type UserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FullName  string  `json:"full_name"`
	Email     *string `json:"email"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login"`
}

type PhotoResponse struct {
	ID               int64   `json:"id"`
	Filename         string  `json:"filename"`
	OriginalFilename string  `json:"original_filename"`
	FilePath         string  `json:"file_path"`
	FileSize         int64   `json:"file_size"`
	MimeType         string  `json:"mime_type"`
	UploadedAt       string  `json:"uploaded_at"`
	Metadata         JSONMap `json:"metadata"`
}

type CollectionResponse struct {
	ID             int64   `json:"id"`
	CustomerName   string  `json:"customer_name"`
	Description    string  `json:"description"`
	SubmissionDate string  `json:"submission_date"`
	UserID         int64   `json:"user_id"`
	PhotoID        *int64  `json:"photo_id"`
	LocationData   JSONMap `json:"location_data"`
	DeviceInfo     JSONMap `json:"device_info"`
	IsSynchronized bool    `json:"is_synchronized"`
	SyncError      *string `json:"sync_error"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: formatTime(u.CreatedAt),
		LastLogin: formatTimePtr(u.LastLogin),
	}
}

func NewPhotoResponse(p *Photo) *PhotoResponse {
	return &PhotoResponse{
		ID:               p.ID,
		Filename:         p.Filename,
		OriginalFilename: p.OriginalFilename,
		FilePath:         p.FilePath,
		FileSize:         p.FileSize,
		MimeType:         p.MimeType,
		UploadedAt:       formatTime(p.UploadedAt),
		Metadata:         p.Metadata,
	}
}

func NewCollectionResponse(c *DataCollection) *CollectionResponse {
	return &CollectionResponse{
		ID:             c.ID,
		CustomerName:   c.CustomerName,
		Description:    c.Description,
		SubmissionDate: formatTime(c.SubmissionDate),
		UserID:         c.UserID,
		PhotoID:        c.PhotoID,
		LocationData:   c.LocationData,
		DeviceInfo:     c.DeviceInfo,
		IsSynchronized: c.IsSynchronized,
		SyncError:      c.SyncError,
	}
}
