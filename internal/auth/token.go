// Package auth provides session token issuance
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// tokenBytes is the entropy of an issued token; rendered as hex the token
// is exactly twice this many characters
const tokenBytes = 32

// TokenGenerator issues opaque session tokens with a fixed time-to-live
type TokenGenerator struct {
	ttl time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(ttl time.Duration) *TokenGenerator {
	return &TokenGenerator{ttl: ttl}
}

// Generate returns a new 64-character lowercase hex token drawn from a
// cryptographically secure random source, together with its absolute expiry
func (tg *TokenGenerator) Generate() (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	return hex.EncodeToString(buf), time.Now().Add(tg.ttl), nil
}

// TTL returns the configured token lifetime
func (tg *TokenGenerator) TTL() time.Duration {
	return tg.ttl
}
