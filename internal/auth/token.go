package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// reserved claim names owned by the issuer; extra claims may not shadow them.
var reservedClaims = map[string]struct{}{
	"sub": {},
	"iss": {},
	"iat": {},
	"exp": {},
	"jti": {},
}

// Claims is the verified payload carried inside a token. A Claims value
// proves structural validity and signature authenticity only; expiry is
// checked separately so callers can distinguish an expired-but-authentic
// token from a malformed one.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// Expired reports whether the token expiry has passed at the given instant.
// A token without an expiry claim counts as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return true
	}
	return !c.ExpiresAt.After(now)
}

// Tokens issues and verifies compact HS256-signed tokens. The zero value is
// unusable; construct with NewTokens. Safe for concurrent use: the key is
// immutable after construction.
type Tokens struct {
	key    SigningKey
	issuer string
	now    func() time.Time
}

// NewTokens builds a token codec around the process signing key.
func NewTokens(key SigningKey, issuer string) Tokens {
	return Tokens{key: key, issuer: issuer, now: time.Now}
}

// WithClock returns a copy using the provided time source. Test helper.
func (t Tokens) WithClock(now func() time.Time) Tokens {
	if now != nil {
		t.now = now
	}
	return t
}

// Issue signs a token for the subject. Expiry is always exactly
// issued-at + ttl; a zero or negative ttl produces an already expired
// token. Extra claims are embedded as-is, except reserved names which
// are silently skipped.
func (t Tokens) Issue(subject string, extra map[string]any, ttl time.Duration) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, errors.New("auth: subject is required")
	}
	if len(t.key) == 0 {
		return "", time.Time{}, errors.New("auth: signing key is not configured")
	}

	now := t.now().UTC()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{}
	for k, v := range extra {
		if _, ok := reservedClaims[k]; ok {
			continue
		}
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(expiresAt)
	claims["jti"] = uuid.NewString()
	if t.issuer != "" {
		claims["iss"] = t.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse decodes the token and verifies its signature under the configured
// key. It deliberately does not validate expiry; callers check
// Claims.Expired against their own notion of now.
func (t Tokens) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMalformed
	}
	if len(t.key) == 0 {
		return nil, errors.New("auth: signing key is not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte(t.key), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrSignatureInvalid
	}

	raw, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	subject, err := raw.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return nil, ErrTokenMalformed
	}

	claims := &Claims{Subject: subject}
	if iss, err := raw.GetIssuer(); err == nil {
		claims.Issuer = iss
	}
	if iat, err := raw.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	for k, v := range raw {
		if _, ok := reservedClaims[k]; ok {
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}
	return claims, nil
}
