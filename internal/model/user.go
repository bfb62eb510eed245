package model

import "time"

// User holds the sign-in credentials of the built-in auth provider.
// The matching Profile shares its ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}
