package auth

import (
	"context"
	"time"
)

// Status is the activation state of an identity. The user-management
// collaborator owns the lifecycle; the auth core only reads it.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Identity is the auth-facing snapshot of a user record. Email doubles as
// the token subject. PasswordHash is carried for verification only and is
// stripped from every snapshot the service hands back.
type Identity struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Status       Status     `json:"status"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	PasswordHash string     `json:"-"`
}

// Directory is the narrow view of the user-management collaborator the
// auth core consumes: identity lookup by key and best-effort persistence
// of the last-authenticated timestamp.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// Session is the outcome of a successful login or refresh. Identity is
// nil on refresh: the flow re-issues tokens from the subject claim alone
// and performs no directory lookup.
type Session struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	Identity         *Identity `json:"user,omitempty"`
}
