// Package credentials hashes and verifies account passwords. It holds no
// state and performs no I/O; persistence of the resulting hashes belongs to
// the repository layer.
package credentials

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// Hash derives a bcrypt hash from the plaintext password. Each call salts
// independently, so hashing the same password twice yields different strings.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// A mismatch is a plain false, never an error.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
