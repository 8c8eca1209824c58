package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SigningKey is the process-wide symmetric key material used for every
// token signature. It is decoded once at startup and never mutated or
// logged afterwards; concurrent reads need no synchronisation.
type SigningKey []byte

// LoadSigningKey decodes base64-encoded secret material into a usable key.
// A missing or undecodable secret is a startup error: the caller is
// expected to refuse to start rather than serve unsigned tokens.
func LoadSigningKey(encoded string) (SigningKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("auth: decode signing secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("auth: signing secret decodes to empty key")
	}
	return SigningKey(key), nil
}
