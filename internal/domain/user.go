package domain

import "time"

// User is the domain entity for a user account. Profile fields
// (display name, bio) live on the same row.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Bio          string
	CreatedAt    time.Time
}
