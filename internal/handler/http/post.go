package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campusconfess/backend/internal/service"
	apperrors "github.com/campusconfess/backend/pkg/errors"
	"github.com/campusconfess/backend/pkg/pagination"
	"github.com/campusconfess/backend/pkg/validator"
)

// PostHandler exposes the confession feed: posts, comments and votes.
type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// CreatePostRequest is the payload for POST /api/v1/posts.
type CreatePostRequest struct {
	Username  string `json:"username" validate:"omitempty,max=100"`
	Text      string `json:"text" validate:"required,max=4000"`
	Longitude int64  `json:"longitude"`
	Latitude  int64  `json:"latitude"`
}

// UpdatePostRequest is the payload for PATCH /api/v1/posts/{id}.
type UpdatePostRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// CreateCommentRequest is the payload for POST /api/v1/posts/{id}/comments.
type CreateCommentRequest struct {
	Username string `json:"username" validate:"omitempty,max=100"`
	Text     string `json:"text" validate:"required,max=4000"`
}

// VoteRequest is the payload for the vote endpoints. A missing "up" field
// counts as an upvote.
type VoteRequest struct {
	Up *bool `json:"up"`
}

// Create handles POST /api/v1/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), service.CreatePostInput{
		Username:  req.Username,
		Text:      req.Text,
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: post})
}

// List handles GET /api/v1/posts with page/per_page query parameters.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	posts, total, err := h.posts.ListPosts(r.Context(), params)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(posts, int(total), params)})
}

// ListNearby handles GET /api/v1/posts/nearby?longitude=&latitude=.
func (h *PostHandler) ListNearby(w http.ResponseWriter, r *http.Request) {
	longitude, err := strconv.ParseInt(r.URL.Query().Get("longitude"), 10, 64)
	if err != nil {
		writeAppError(w, r, apperrors.InvalidInput("longitude must be an integer"))
		return
	}
	latitude, err := strconv.ParseInt(r.URL.Query().Get("latitude"), 10, 64)
	if err != nil {
		writeAppError(w, r, apperrors.InvalidInput("latitude must be an integer"))
		return
	}

	posts, err := h.posts.ListNearbyPosts(r.Context(), longitude, latitude)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: posts})
}

// Get handles GET /api/v1/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: post})
}

// Update handles PATCH /api/v1/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.posts.UpdatePostText(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: post})
}

// Delete handles DELETE /api/v1/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Vote handles POST /api/v1/posts/{id}/vote.
func (h *PostHandler) Vote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req VoteRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeInvalidBody(w, err)
			return
		}
	}

	post, err := h.posts.VotePost(r.Context(), chi.URLParam(r, "id"), req.Up)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: post})
}

// ListComments handles GET /api/v1/posts/{id}/comments.
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.posts.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: comments})
}

// CreateComment handles POST /api/v1/posts/{id}/comments.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	comment, err := h.posts.CreateComment(r.Context(), chi.URLParam(r, "id"), service.CreateCommentInput{
		Username: req.Username,
		Text:     req.Text,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: comment})
}

// VoteComment handles POST /api/v1/comments/{id}/vote.
func (h *PostHandler) VoteComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req VoteRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeInvalidBody(w, err)
			return
		}
	}

	comment, err := h.posts.VoteComment(r.Context(), chi.URLParam(r, "id"), req.Up)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: comment})
}
