package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusconfess/backend/internal/domain"
	apperrors "github.com/campusconfess/backend/pkg/errors"
	"github.com/campusconfess/backend/pkg/pagination"
)

const postColumns = `id, username, text, score, longitude, latitude, created_at`

// PostRepository implements repository.PostRepository using PostgreSQL.
type PostRepository struct {
	db DB
}

// NewPostRepository creates a new PostgreSQL-backed post repository.
func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post into the database.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (id, username, text, score, longitude, latitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Username,
		p.Text,
		p.Score,
		p.Longitude,
		p.Latitude,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var p domain.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Username,
		&p.Text,
		&p.Score,
		&p.Longitude,
		&p.Latitude,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return &p, nil
}

// List returns posts newest-first, paginated, along with the total count.
func (r *PostRepository) List(ctx context.Context, params pagination.Params) ([]domain.Post, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListNearby returns posts whose longitude and latitude each differ from the
// given point by less than radius. Vicinity is an absolute-difference box,
// not a great-circle distance.
func (r *PostRepository) ListNearby(ctx context.Context, longitude, latitude, radius int64) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE ABS(longitude - $1) < $3 AND ABS(latitude - $2) < $3
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, longitude, latitude, radius)
	if err != nil {
		return nil, fmt.Errorf("list nearby posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// UpdateText replaces the text of an existing post.
func (r *PostRepository) UpdateText(ctx context.Context, id, text string) error {
	ct, err := r.db.Exec(ctx, `UPDATE posts SET text = $1 WHERE id = $2`, text, id)
	if err != nil {
		return fmt.Errorf("update post text: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("post", id)
	}

	return nil
}

// Delete removes a post; its comments go with it via the FK cascade.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("post", id)
	}

	return nil
}

// AddScore atomically adjusts the post score by delta and returns the
// updated post.
func (r *PostRepository) AddScore(ctx context.Context, id string, delta int64) (*domain.Post, error) {
	query := `UPDATE posts SET score = score + $1 WHERE id = $2 RETURNING ` + postColumns

	var p domain.Post
	err := r.db.QueryRow(ctx, query, delta, id).Scan(
		&p.ID,
		&p.Username,
		&p.Text,
		&p.Score,
		&p.Longitude,
		&p.Latitude,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, fmt.Errorf("vote post: %w", err)
	}

	return &p, nil
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID,
			&p.Username,
			&p.Text,
			&p.Score,
			&p.Longitude,
			&p.Latitude,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	if posts == nil {
		posts = []domain.Post{}
	}

	return posts, nil
}

// --- Comment Repository ---

const commentColumns = `id, post_id, username, text, score, created_at`

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DB
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(db DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment into the database.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, username, text, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.PostID,
		c.Username,
		c.Text,
		c.Score,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// ListByPostID returns all comments for the given post, oldest-first.
func (r *CommentRepository) ListByPostID(ctx context.Context, postID string) ([]domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.Username,
			&c.Text,
			&c.Score,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	if comments == nil {
		comments = []domain.Comment{}
	}

	return comments, nil
}

// AddScore atomically adjusts the comment score by delta and returns the
// updated comment.
func (r *CommentRepository) AddScore(ctx context.Context, id string, delta int64) (*domain.Comment, error) {
	query := `UPDATE comments SET score = score + $1 WHERE id = $2 RETURNING ` + commentColumns

	var c domain.Comment
	err := r.db.QueryRow(ctx, query, delta, id).Scan(
		&c.ID,
		&c.PostID,
		&c.Username,
		&c.Text,
		&c.Score,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment", id)
		}
		return nil, fmt.Errorf("vote comment: %w", err)
	}

	return &c, nil
}
