// Package users owns the identity records the auth core authenticates
// against: creation, mutation, status lifecycle and credential hashes.
package users

import (
	"errors"
	"time"

	"talenthub.org/internal/auth"
)

var (
	ErrNotFound      = errors.New("users: not found")
	ErrAlreadyExists = errors.New("users: already exists")
	ErrInvalidInput  = errors.New("users: invalid input")
)

// User is a persisted account record. PasswordHash is a bcrypt digest;
// the plaintext password never reaches a User value.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         string      `json:"role"`
	Status       auth.Status `json:"status"`
	PasswordHash string      `json:"-"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ValidStatus reports whether the value is one of the known states.
func ValidStatus(s auth.Status) bool {
	switch s {
	case auth.StatusActive, auth.StatusInactive, auth.StatusSuspended:
		return true
	}
	return false
}
