package models

import "time"

// Session is the server-side login session kept in Redis, keyed by an
// opaque token handed to the client at login.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
