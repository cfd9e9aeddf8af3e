// Package token mints the opaque session and update tokens handed out by the
// account service. Tokens are random digests, not signed claims: possession
// of the exact string is the only proof of identity.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// tokenEntropyBytes is the number of random bytes drawn per token (512 bits).
const tokenEntropyBytes = 64

// DefaultLifetime is the session token lifetime when none is configured.
const DefaultLifetime = 24 * time.Hour

// Issuer mints tokens and computes session expirations. The clock is
// injectable so expiration behavior can be tested deterministically.
type Issuer struct {
	lifetime time.Duration
	now      func() time.Time
}

// NewIssuer creates an issuer with the given session lifetime. A
// non-positive lifetime falls back to DefaultLifetime.
func NewIssuer(lifetime time.Duration) *Issuer {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Issuer{lifetime: lifetime, now: time.Now}
}

// NewIssuerWithClock creates an issuer with an injected clock for tests.
func NewIssuerWithClock(lifetime time.Duration, now func() time.Time) *Issuer {
	iss := NewIssuer(lifetime)
	if now != nil {
		iss.now = now
	}
	return iss
}

// Lifetime returns the configured session lifetime.
func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

// NewToken draws 64 bytes from the system CSPRNG and condenses them through
// SHA-256 into a 64-character lowercase hex string. An entropy failure is
// returned as an error; callers must treat it as fatal for the operation
// rather than fall back to a weaker source.
func (i *Issuer) NewToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read token entropy: %w", err)
	}
	digest := sha256.Sum256(buf)
	return hex.EncodeToString(digest[:]), nil
}

// ExpirationFromNow returns the session expiration for a token minted now.
func (i *Issuer) ExpirationFromNow() time.Time {
	return i.now().UTC().Add(i.lifetime)
}
