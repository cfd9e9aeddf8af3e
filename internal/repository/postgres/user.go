package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campusconfess/backend/internal/domain"
	apperrors "github.com/campusconfess/backend/pkg/errors"
)

// userColumns is the column list shared by every user query.
const userColumns = `id, email, password_hash, session_token, session_expiration, update_token, first_name, last_name, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, session_token, session_expiration, update_token, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.SessionToken,
		u.SessionExpiration,
		u.UpdateToken,
		u.FirstName,
		u.LastName,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address. The match is exact;
// no case folding is applied.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

// GetBySessionToken retrieves the user holding the given session token.
func (r *UserRepository) GetBySessionToken(ctx context.Context, sessionToken string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE session_token = $1`
	return r.scanUser(ctx, query, sessionToken)
}

// GetByUpdateToken retrieves the user holding the given update token.
func (r *UserRepository) GetByUpdateToken(ctx context.Context, updateToken string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE update_token = $1`
	return r.scanUser(ctx, query, updateToken)
}

// Update modifies an existing user in the database. Token rotation goes
// through here: the new pair overwrites the old one in a single statement.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, session_token = $3, session_expiration = $4,
		    update_token = $5, first_name = $6, last_name = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		u.Email,
		u.PasswordHash,
		u.SessionToken,
		u.SessionExpiration,
		u.UpdateToken,
		u.FirstName,
		u.LastName,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.SessionToken,
		&u.SessionExpiration,
		&u.UpdateToken,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
