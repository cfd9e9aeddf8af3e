package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campusconfess/backend/internal/cache"
	"github.com/campusconfess/backend/internal/domain"
	"github.com/campusconfess/backend/internal/event"
	"github.com/campusconfess/backend/internal/repository"
	apperrors "github.com/campusconfess/backend/pkg/errors"
	"github.com/campusconfess/backend/pkg/pagination"
)

// DefaultVicinityRadius is the absolute-difference threshold for nearby
// queries when none is configured.
const DefaultVicinityRadius = 1000

// maxPostLength caps confession text; comments share the cap.
const maxPostLength = 4000

// PostService implements the business logic for posts, comments and votes.
// The Redis cache is optional; a nil cache disables caching entirely.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	cache       *cache.PostCache
	producer    *event.Producer
	logger      *slog.Logger
	radius      int64
}

// NewPostService creates a new post service. A non-positive radius falls
// back to DefaultVicinityRadius.
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	postCache *cache.PostCache,
	producer *event.Producer,
	logger *slog.Logger,
	radius int64,
) *PostService {
	if radius <= 0 {
		radius = DefaultVicinityRadius
	}
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cache:       postCache,
		producer:    producer,
		logger:      logger,
		radius:      radius,
	}
}

// CreatePostInput holds the parameters for creating a post.
type CreatePostInput struct {
	Username  string
	Text      string
	Longitude int64
	Latitude  int64
}

// CreateCommentInput holds the parameters for commenting on a post.
type CreateCommentInput struct {
	Username string
	Text     string
}

// CreatePost stores a new confession and publishes post.created.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if input.Text == "" {
		return nil, apperrors.InvalidInput("text is required")
	}
	if len(input.Text) > maxPostLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("text must be at most %d characters", maxPostLength))
	}

	post := &domain.Post{
		ID:        uuid.New().String(),
		Username:  input.Username,
		Text:      input.Text,
		Score:     0,
		Longitude: input.Longitude,
		Latitude:  input.Latitude,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidateCache(ctx)

	if err := s.producer.PublishPostCreated(ctx, post); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish post.created event",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
	)

	return post, nil
}

// GetPost retrieves a single post by ID.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// ListPosts returns posts newest-first, read through the cache when one is
// configured. Cache failures degrade to the database.
func (s *PostService) ListPosts(ctx context.Context, params pagination.Params) ([]domain.Post, int64, error) {
	if s.cache != nil {
		posts, total, err := s.cache.GetPage(ctx, params)
		if err == nil {
			return posts, total, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "post cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	posts, total, err := s.postRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, params, posts, total); err != nil {
			s.logger.WarnContext(ctx, "post cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return posts, total, nil
}

// ListNearbyPosts returns posts within the configured vicinity of the given
// point, newest-first.
func (s *PostService) ListNearbyPosts(ctx context.Context, longitude, latitude int64) ([]domain.Post, error) {
	posts, err := s.postRepo.ListNearby(ctx, longitude, latitude, s.radius)
	if err != nil {
		return nil, fmt.Errorf("list nearby posts: %w", err)
	}
	return posts, nil
}

// UpdatePostText replaces a post's text.
func (s *PostService) UpdatePostText(ctx context.Context, id, text string) (*domain.Post, error) {
	if text == "" {
		return nil, apperrors.InvalidInput("text is required")
	}
	if len(text) > maxPostLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("text must be at most %d characters", maxPostLength))
	}

	if err := s.postRepo.UpdateText(ctx, id, text); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload post after update: %w", err)
	}

	s.logger.InfoContext(ctx, "post updated",
		slog.String("post_id", id),
	)

	return post, nil
}

// DeletePost removes a post and, via the FK cascade, its comments.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)

	s.logger.InfoContext(ctx, "post deleted",
		slog.String("post_id", id),
	)

	return nil
}

// VotePost adjusts a post's score. A nil or true flag counts +1, false −1.
func (s *PostService) VotePost(ctx context.Context, id string, up *bool) (*domain.Post, error) {
	post, err := s.postRepo.AddScore(ctx, id, domain.VoteDelta(up))
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	return post, nil
}

// ListComments returns the comments on a post, oldest-first. The post must
// exist.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// CreateComment attaches a comment to an existing post.
func (s *PostService) CreateComment(ctx context.Context, postID string, input CreateCommentInput) (*domain.Comment, error) {
	if input.Text == "" {
		return nil, apperrors.InvalidInput("text is required")
	}
	if len(input.Text) > maxPostLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("text must be at most %d characters", maxPostLength))
	}

	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		Username:  input.Username,
		Text:      input.Text,
		Score:     0,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("post_id", postID),
		slog.String("comment_id", comment.ID),
	)

	return comment, nil
}

// VoteComment adjusts a comment's score with the same semantics as VotePost.
func (s *PostService) VoteComment(ctx context.Context, id string, up *bool) (*domain.Comment, error) {
	comment, err := s.commentRepo.AddScore(ctx, id, domain.VoteDelta(up))
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// invalidateCache drops cached post pages; failures only log.
func (s *PostService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "post cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
