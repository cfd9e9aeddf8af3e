package http

import (
	"encoding/json"
	"net/http"

	"github.com/campusconfess/backend/internal/domain"
	"github.com/campusconfess/backend/internal/service"
	"github.com/campusconfess/backend/pkg/validator"
)

const maxBodyBytes = 1 << 20

// AuthHandler exposes account registration, login and session management.
type AuthHandler struct {
	accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterRequest is the payload for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
}

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionEnvelope pairs the account with its live session credentials. It is
// the only place session and update tokens appear in a response body.
type sessionEnvelope struct {
	User    *domain.User   `json:"user"`
	Session domain.Session `json:"session"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: sessionEnvelope{
		User:    user,
		Session: domain.SessionOf(user),
	}})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.accounts.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: sessionEnvelope{
		User:    user,
		Session: domain.SessionOf(user),
	}})
}

// Renew handles POST /api/v1/auth/renew. The bearer token here is the update
// token, not the session token.
func (h *AuthHandler) Renew(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "missing or malformed Authorization header"},
		})
		return
	}

	user, err := h.accounts.RenewSession(r.Context(), token)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: sessionEnvelope{
		User:    user,
		Session: domain.SessionOf(user),
	}})
}

// Me handles GET /api/v1/accounts/me. SessionAuth has already verified the
// session and stored the user on the context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTHENTICATION_FAILED", Message: "invalid or expired session"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}
