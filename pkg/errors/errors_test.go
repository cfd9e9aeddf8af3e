package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("post", "p-1")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "p-1")

	wrapped := Internal(errors.New("pool exhausted"))
	assert.Contains(t, wrapped.Error(), "pool exhausted")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.True(t, errors.Is(AlreadyExists("user", "email", "a@x.com"), ErrAlreadyExists))
	assert.True(t, errors.Is(InvalidCredentials(), ErrInvalidCredentials))
	assert.True(t, errors.Is(InvalidToken(), ErrInvalidToken))
	assert.True(t, errors.Is(AuthenticationFailed(), ErrAuthenticationFailed))
}

func TestInvalidCredentials_NoEnumeration(t *testing.T) {
	// The login failure message must not say whether the email exists.
	err := InvalidCredentials()
	assert.Equal(t, "invalid email or password", err.Message)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("user", "u-1"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("handler: %w", InvalidToken()), http.StatusUnauthorized},
		{"sentinel not found", ErrNotFound, http.StatusNotFound},
		{"sentinel already exists", ErrAlreadyExists, http.StatusConflict},
		{"sentinel invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"sentinel invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"sentinel authentication failed", ErrAuthenticationFailed, http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
