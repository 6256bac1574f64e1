// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        *string
	IsActive     bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}
