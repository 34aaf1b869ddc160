// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the account that owns every health record in the system.
type User struct {
	ID           uint64    // Numeric identifier, embedded in session tokens as user_id.
	Email        string    // Unique login identifier.
	PasswordHash string    // bcrypt hash of the user's password. Never serialized.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// UserProfile holds the personal settings shown on the settings page.
// It shares its primary key with the owning User.
type UserProfile struct {
	UserID    uint64
	Nickname  string
	Height    *float64 // Height in centimeters, nil when not set.
	Goal      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal is the identity resolved from a verified access token.
type Principal struct {
	UserID uint64
	Email  string
}
