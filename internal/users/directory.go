package users

import (
	"context"
	"time"

	"talenthub.org/internal/auth"
)

// Directory adapts a Store to the narrow lookup interface the auth core
// consumes.
type Directory struct {
	store Store
}

var _ auth.Directory = (*Directory)(nil)

// NewDirectory wraps the store.
func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// FindByEmail returns the identity snapshot for the given key.
func (d *Directory) FindByEmail(ctx context.Context, email string) (auth.Identity, error) {
	u, err := d.store.FindByEmail(ctx, email)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Status:       u.Status,
		LastLogin:    u.LastLogin,
		PasswordHash: u.PasswordHash,
	}, nil
}

// TouchLastLogin persists the last-authenticated timestamp. Concurrent
// logins race on this write; last write wins and that is acceptable.
func (d *Directory) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return d.store.TouchLastLogin(ctx, id, at)
}
