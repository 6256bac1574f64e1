package models

import "time"

// Photo describes metadata for an uploaded image. The binary content
// itself lives in blob storage under FilePath.
type Photo struct {
	ID               int64
	Filename         string
	OriginalFilename string
	FilePath         string
	FileSize         int64
	MimeType         string
	UploadedAt       time.Time
	Metadata         JSONMap
}
