package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campusconfess/backend/internal/credentials"
	"github.com/campusconfess/backend/internal/domain"
	"github.com/campusconfess/backend/internal/event"
	"github.com/campusconfess/backend/internal/repository"
	"github.com/campusconfess/backend/internal/session"
	"github.com/campusconfess/backend/internal/token"
	apperrors "github.com/campusconfess/backend/pkg/errors"
)

// AccountService implements the business logic for registration, login and
// session management. All token state lives on the user row; each operation
// is a single read followed by at most one write.
type AccountService struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// NewAccountService creates a new account service.
func NewAccountService(
	userRepo repository.UserRepository,
	issuer *token.Issuer,
	producer *event.Producer,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		issuer:   issuer,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Test use only.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds the parameters for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account with freshly minted session credentials.
// Registration doubles as the first login: the returned user carries a live
// session and update token.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	// Pre-check for a friendlier conflict; the unique index is the backstop
	// against a concurrent register with the same email.
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.AlreadyExists("user", "email", input.Email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check email availability: %w", err)
	}

	hash, err := credentials.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	sessionToken, updateToken, err := s.mintTokenPair()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:                uuid.New().String(),
		Email:             input.Email,
		PasswordHash:      hash,
		SessionToken:      sessionToken,
		SessionExpiration: s.issuer.ExpirationFromNow(),
		UpdateToken:       updateToken,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishAccountRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies an email/password pair and returns the account with its
// current tokens. Login does not rotate tokens; a login from a second device
// shares the session of the first. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !credentials.Verify(input.Password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// RenewSession exchanges a valid update token for a fresh session/update
// token pair and a new expiration. This is the only operation that rotates
// tokens; the old pair stops working the moment the write lands.
func (s *AccountService) RenewSession(ctx context.Context, updateToken string) (*domain.User, error) {
	if updateToken == "" {
		return nil, apperrors.InvalidInput("update token is required")
	}

	user, err := s.userRepo.GetByUpdateToken(ctx, updateToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidToken()
		}
		// A repository fault is not an invalid token; let it surface as an
		// internal error so callers can tell the difference.
		return nil, fmt.Errorf("get user by update token: %w", err)
	}

	if !session.UpdateTokenValid(user, updateToken) {
		return nil, apperrors.InvalidToken()
	}

	sessionToken, newUpdateToken, err := s.mintTokenPair()
	if err != nil {
		return nil, err
	}

	user.SessionToken = sessionToken
	user.SessionExpiration = s.issuer.ExpirationFromNow()
	user.UpdateToken = newUpdateToken

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("persist renewed session: %w", err)
	}

	if err := s.producer.PublishSessionRenewed(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.renewed event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "session renewed",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Authenticate resolves a session token to its account. Unknown tokens and
// expired sessions both fail the same way; the caller learns nothing about
// which it was. Authenticate never writes.
func (s *AccountService) Authenticate(ctx context.Context, sessionToken string) (*domain.User, error) {
	if sessionToken == "" {
		return nil, apperrors.InvalidInput("session token is required")
	}

	user, err := s.userRepo.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.AuthenticationFailed()
		}
		return nil, fmt.Errorf("get user by session token: %w", err)
	}

	if !session.Valid(user, sessionToken, s.now().UTC()) {
		return nil, apperrors.AuthenticationFailed()
	}

	return user, nil
}

// mintTokenPair draws a fresh session and update token from the issuer.
func (s *AccountService) mintTokenPair() (sessionToken, updateToken string, err error) {
	sessionToken, err = s.issuer.NewToken()
	if err != nil {
		return "", "", fmt.Errorf("mint session token: %w", err)
	}
	updateToken, err = s.issuer.NewToken()
	if err != nil {
		return "", "", fmt.Errorf("mint update token: %w", err)
	}
	return sessionToken, updateToken, nil
}
