package repository

import (
	"context"

	"github.com/campusconfess/backend/internal/domain"
	"github.com/campusconfess/backend/pkg/pagination"
)

// UserRepository defines the interface for account persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (exact match).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetBySessionToken retrieves the user holding the given session token.
	GetBySessionToken(ctx context.Context, sessionToken string) (*domain.User, error)

	// GetByUpdateToken retrieves the user holding the given update token.
	GetByUpdateToken(ctx context.Context, updateToken string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// PostRepository defines the interface for post persistence operations.
type PostRepository interface {
	// Create inserts a new post into the store.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns posts newest-first, paginated.
	List(ctx context.Context, params pagination.Params) ([]domain.Post, int64, error)

	// ListNearby returns posts whose coordinates both differ from the given
	// point by less than radius, newest-first.
	ListNearby(ctx context.Context, longitude, latitude, radius int64) ([]domain.Post, error)

	// UpdateText replaces the text of an existing post.
	UpdateText(ctx context.Context, id, text string) error

	// Delete removes a post (and, via cascade, its comments).
	Delete(ctx context.Context, id string) error

	// AddScore atomically adjusts the post score by delta and returns the
	// updated post.
	AddScore(ctx context.Context, id string, delta int64) (*domain.Post, error)
}

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	// Create inserts a new comment into the store.
	Create(ctx context.Context, comment *domain.Comment) error

	// ListByPostID returns all comments for the given post, oldest-first.
	ListByPostID(ctx context.Context, postID string) ([]domain.Comment, error)

	// AddScore atomically adjusts the comment score by delta and returns the
	// updated comment.
	AddScore(ctx context.Context, id string, delta int64) (*domain.Comment, error)
}
