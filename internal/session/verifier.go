// Package session checks presented tokens against a user's stored
// credentials. Comparisons are constant-time so token checks leak no timing
// information about stored values.
package session

import (
	"crypto/subtle"
	"time"

	"github.com/campusconfess/backend/internal/domain"
)

// tokenEqual compares two token strings in constant time.
func tokenEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Valid reports whether the presented session token matches the user's
// current token and the session has not expired. Expiration is strict: a
// token presented exactly at its expiration instant is already invalid.
func Valid(u *domain.User, sessionToken string, now time.Time) bool {
	if u == nil || sessionToken == "" || u.SessionToken == "" {
		return false
	}
	if !tokenEqual(u.SessionToken, sessionToken) {
		return false
	}
	return now.Before(u.SessionExpiration)
}

// UpdateTokenValid reports whether the presented update token matches the
// user's current one. Update tokens carry no expiration; they are only
// invalidated by rotation.
func UpdateTokenValid(u *domain.User, updateToken string) bool {
	if u == nil || updateToken == "" || u.UpdateToken == "" {
		return false
	}
	return tokenEqual(u.UpdateToken, updateToken)
}
