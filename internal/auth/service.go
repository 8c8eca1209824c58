package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"talenthub.org/internal/obs"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Service orchestrates the three authentication flows: login
// (verify credentials, issue a token pair), refresh (validate a refresh
// token, re-issue a pair) and resolve (validate an access token, load the
// identity behind it). It holds no mutable state; every flow is a pure
// computation plus at most one directory call, so concurrent use needs no
// coordination.
type Service struct {
	dir        Directory
	tokens     Tokens
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source shared by issuance and expiry
// checks (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
			s.tokens = s.tokens.WithClock(fn)
		}
	}
}

// NewService constructs the flow controller.
func NewService(dir Directory, tokens Tokens, opts ...ServiceOption) (*Service, error) {
	if dir == nil {
		return nil, errors.New("auth: directory is required")
	}
	if len(tokens.key) == 0 {
		return nil, errors.New("auth: tokens are not configured with a signing key")
	}
	svc := &Service{
		dir:        dir,
		tokens:     tokens,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Login verifies the credentials and issues a fresh token pair. An
// unknown email, a non-active identity and a wrong password all surface
// as the same ErrAuthenticationFailed. A failure to persist the
// last-login timestamp is logged and swallowed: it never invalidates a
// successful login.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, ErrAuthenticationFailed
	}
	identity, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrAuthenticationFailed
	}
	if identity.Status != StatusActive {
		return Session{}, ErrAuthenticationFailed
	}
	if !VerifyPassword(identity.PasswordHash, password) {
		return Session{}, ErrAuthenticationFailed
	}

	session, err := s.mint(identity.Email)
	if err != nil {
		return Session{}, err
	}

	loginAt := s.now().UTC()
	if err := s.dir.TouchLastLogin(ctx, identity.ID, loginAt); err != nil {
		obs.LogRequest(map[string]any{
			"ts":          loginAt.Format(time.RFC3339Nano),
			"level":       "warn",
			"msg":         "last_login_persist_failed",
			"identity_id": identity.ID,
			"error":       err.Error(),
		})
	} else {
		identity.LastLogin = &loginAt
	}

	snapshot := identity
	snapshot.PasswordHash = ""
	session.Identity = &snapshot
	return session, nil
}

// Refresh validates a refresh token and issues a new access/refresh pair
// for its subject. The old refresh token stays valid until its natural
// expiry; there is no server-side state to revoke it against.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return Session{}, err
	}
	if claims.Expired(s.now().UTC()) {
		return Session{}, ErrTokenExpired
	}
	return s.mint(claims.Subject)
}

// Resolve turns a bearer access token into the identity behind it. Every
// failure mode, from a malformed token to an identity deleted after
// issuance, collapses into ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if claims.Expired(s.now().UTC()) {
		return nil, ErrUnauthenticated
	}
	identity, err := s.dir.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if identity.Status != StatusActive {
		return nil, ErrUnauthenticated
	}
	identity.PasswordHash = ""
	return &identity, nil
}

// Logout is a stateless acknowledgment. Issued tokens remain valid until
// their natural expiry; true revocation would need a deny-list, which
// this design intentionally does not carry.
func (s *Service) Logout(ctx context.Context) error {
	return nil
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

func (s *Service) mint(subject string) (Session, error) {
	access, accessExp, err := s.tokens.Issue(subject, nil, s.accessTTL)
	if err != nil {
		return Session{}, err
	}
	refresh, refreshExp, err := s.tokens.Issue(subject, nil, s.refreshTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
