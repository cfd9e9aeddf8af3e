package domain

import (
	"time"
)

// User represents a registered account. The credential fields carry json:"-"
// so they can never leak through a serialized user payload; tokens are only
// handed out through the Session struct on register/login/renew.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	SessionToken      string    `json:"-"`
	SessionExpiration time.Time `json:"-"`
	UpdateToken       string    `json:"-"`
	FirstName         string    `json:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Session is the credential payload returned by register, login and renew.
// The session token expires; the update token does not and is only usable
// for minting a replacement pair.
type Session struct {
	SessionToken      string    `json:"session_token"`
	SessionExpiration time.Time `json:"session_expiration"`
	UpdateToken       string    `json:"update_token"`
}

// SessionOf extracts the current credential payload from a user.
func SessionOf(u *User) Session {
	return Session{
		SessionToken:      u.SessionToken,
		SessionExpiration: u.SessionExpiration,
		UpdateToken:       u.UpdateToken,
	}
}
