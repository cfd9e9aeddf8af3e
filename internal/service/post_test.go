package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusconfess/backend/internal/domain"
	apperrors "github.com/campusconfess/backend/pkg/errors"
	"github.com/campusconfess/backend/pkg/pagination"
)

// --- Mock Post Repository ---

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context, params pagination.Params) ([]domain.Post, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Post), args.Get(1).(int64), args.Error(2)
}

func (m *mockPostRepository) ListNearby(ctx context.Context, longitude, latitude, radius int64) ([]domain.Post, error) {
	args := m.Called(ctx, longitude, latitude, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *mockPostRepository) UpdateText(ctx context.Context, id, text string) error {
	args := m.Called(ctx, id, text)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) AddScore(ctx context.Context, id string, delta int64) (*domain.Post, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

// --- Mock Comment Repository ---

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) ListByPostID(ctx context.Context, postID string) ([]domain.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) AddScore(ctx context.Context, id string, delta int64) (*domain.Comment, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func newTestPostService(postRepo *mockPostRepository, commentRepo *mockCommentRepository) *PostService {
	// nil cache: caching off in unit tests.
	return NewPostService(postRepo, commentRepo, nil, newTestEventProducer(), newTestLogger(), 0)
}

func existingPost() *domain.Post {
	return &domain.Post{
		ID:        "p-1",
		Text:      "the dining hall ran out of coffee again",
		Score:     2,
		Longitude: 500,
		Latitude:  -200,
		CreatedAt: time.Now().UTC(),
	}
}

// --- Post Tests ---

func TestCreatePost_Success(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))
	ctx := context.Background()

	postRepo.On("Create", ctx, mock.AnythingOfType("*domain.Post")).Return(nil)

	post, err := svc.CreatePost(ctx, CreatePostInput{
		Username:  "anon",
		Text:      "finals week is eating me alive",
		Longitude: 1200,
		Latitude:  300,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Zero(t, post.Score, "new posts start with score 0")
	assert.Equal(t, int64(1200), post.Longitude)
	postRepo.AssertExpectations(t)
}

func TestCreatePost_EmptyText(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))

	_, err := svc.CreatePost(context.Background(), CreatePostInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_TextTooLong(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Text: strings.Repeat("a", maxPostLength+1),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListNearbyPosts_UsesConfiguredRadius(t *testing.T) {
	postRepo := new(mockPostRepository)
	commentRepo := new(mockCommentRepository)
	svc := NewPostService(postRepo, commentRepo, nil, newTestEventProducer(), newTestLogger(), 250)
	ctx := context.Background()

	postRepo.On("ListNearby", ctx, int64(100), int64(200), int64(250)).
		Return([]domain.Post{*existingPost()}, nil)

	posts, err := svc.ListNearbyPosts(ctx, 100, 200)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	postRepo.AssertExpectations(t)
}

func TestListNearbyPosts_DefaultRadius(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))
	ctx := context.Background()

	postRepo.On("ListNearby", ctx, int64(0), int64(0), int64(DefaultVicinityRadius)).
		Return([]domain.Post{}, nil)

	_, err := svc.ListNearbyPosts(ctx, 0, 0)
	require.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestGetPost_NotFound(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))
	ctx := context.Background()

	postRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Vote Tests ---

func TestVotePost_Semantics(t *testing.T) {
	up := true
	down := false

	tests := []struct {
		name  string
		flag  *bool
		delta int64
	}{
		{"missing flag is an upvote", nil, 1},
		{"explicit upvote", &up, 1},
		{"downvote", &down, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(mockPostRepository)
			svc := newTestPostService(postRepo, new(mockCommentRepository))
			ctx := context.Background()

			voted := existingPost()
			voted.Score += tt.delta
			postRepo.On("AddScore", ctx, "p-1", tt.delta).Return(voted, nil)

			got, err := svc.VotePost(ctx, "p-1", tt.flag)
			require.NoError(t, err)
			assert.Equal(t, voted.Score, got.Score)
			postRepo.AssertExpectations(t)
		})
	}
}

func TestVoteComment_Downvote(t *testing.T) {
	commentRepo := new(mockCommentRepository)
	svc := newTestPostService(new(mockPostRepository), commentRepo)
	ctx := context.Background()

	down := false
	voted := &domain.Comment{ID: "c-1", PostID: "p-1", Text: "same", Score: -1}
	commentRepo.On("AddScore", ctx, "c-1", int64(-1)).Return(voted, nil)

	got, err := svc.VoteComment(ctx, "c-1", &down)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got.Score)
	commentRepo.AssertExpectations(t)
}

// --- Comment Tests ---

func TestCreateComment_Success(t *testing.T) {
	postRepo := new(mockPostRepository)
	commentRepo := new(mockCommentRepository)
	svc := newTestPostService(postRepo, commentRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, "p-1").Return(existingPost(), nil)
	commentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).Return(nil)

	comment, err := svc.CreateComment(ctx, "p-1", CreateCommentInput{Text: "hard agree"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", comment.PostID)
	assert.NotEmpty(t, comment.ID)
	postRepo.AssertExpectations(t)
	commentRepo.AssertExpectations(t)
}

func TestCreateComment_PostMissing(t *testing.T) {
	postRepo := new(mockPostRepository)
	commentRepo := new(mockCommentRepository)
	svc := newTestPostService(postRepo, commentRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.CreateComment(ctx, "missing", CreateCommentInput{Text: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListComments_PostMissing(t *testing.T) {
	postRepo := new(mockPostRepository)
	commentRepo := new(mockCommentRepository)
	svc := newTestPostService(postRepo, commentRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	commentRepo.AssertNotCalled(t, "ListByPostID", mock.Anything, mock.Anything)
}

// --- Update/Delete Tests ---

func TestUpdatePostText_Success(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))
	ctx := context.Background()

	updated := existingPost()
	updated.Text = "edited"
	postRepo.On("UpdateText", ctx, "p-1", "edited").Return(nil)
	postRepo.On("GetByID", ctx, "p-1").Return(updated, nil)

	got, err := svc.UpdatePostText(ctx, "p-1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	postRepo.AssertExpectations(t)
}

func TestDeletePost_NotFound(t *testing.T) {
	postRepo := new(mockPostRepository)
	svc := newTestPostService(postRepo, new(mockCommentRepository))
	ctx := context.Background()

	postRepo.On("Delete", ctx, "missing").Return(apperrors.NotFound("post", "missing"))

	err := svc.DeletePost(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
