package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"talenthub.org/internal/auth"
)

const minPasswordLength = 8

// Service wraps a Store with input validation and credential hashing.
// Passwords are hashed on the way in; a Service never hands plaintext to
// the store.
type Service struct {
	store Store
}

// NewService constructs the user-management service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("users: store is required")
	}
	return &Service{store: store}, nil
}

// NewUser carries the fields accepted on account creation.
type NewUser struct {
	Email    string
	Name     string
	Role     string
	Password string
	Status   auth.Status
}

// Create validates, hashes the password and persists a new account.
func (s *Service) Create(ctx context.Context, in NewUser) (*User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	status := in.Status
	if status == "" {
		status = auth.StatusActive
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         strings.TrimSpace(in.Role),
		Status:       status,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns the account by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.Find(ctx, id)
}

// List returns all accounts ordered by creation time.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// UserUpdate carries the mutable profile fields.
type UserUpdate struct {
	Email  string
	Name   string
	Role   string
	Status auth.Status
}

// Update replaces the profile fields of an existing account. The
// credential hash and login history are untouched.
func (s *Service) Update(ctx context.Context, id string, in UserUpdate) (*User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != "" {
		email, err := normalizeEmail(in.Email)
		if err != nil {
			return nil, err
		}
		current.Email = email
	}
	if in.Name != "" {
		current.Name = strings.TrimSpace(in.Name)
	}
	if in.Role != "" {
		current.Role = strings.TrimSpace(in.Role)
	}
	if in.Status != "" {
		if !ValidStatus(in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
		}
		current.Status = in.Status
	}
	if err := s.store.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, id)
}

// ChangePassword re-hashes and stores a new credential.
func (s *Service) ChangePassword(ctx context.Context, id, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, hash)
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	return email, nil
}
