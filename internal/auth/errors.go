package auth

import "errors"

var (
	// ErrAuthenticationFailed covers both an unknown email and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrAuthenticationFailed = errors.New("auth: authentication failed")

	// ErrTokenMalformed indicates the token could not be decoded at all.
	ErrTokenMalformed = errors.New("auth: token malformed")

	// ErrSignatureInvalid indicates the token decoded but its MAC does not
	// verify under the configured signing key.
	ErrSignatureInvalid = errors.New("auth: token signature invalid")

	// ErrTokenExpired indicates an authentic token whose expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrUnauthenticated is the umbrella result of identity resolution;
	// malformed, forged, expired and deleted-identity cases all collapse
	// into it at the resolve boundary.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
)
