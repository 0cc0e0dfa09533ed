package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/podium/backend/internal/services"
)

// PostHandler serves the feed, likes and comments.
type PostHandler struct {
	Posts   PostService
	Limiter RateLimiter
}

type addCommentRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

// Feed handles GET /feed.
func (h PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Posts == nil {
		unavailableDependency(ctx, w, "post service")
		return
	}

	posts, err := h.Posts.Feed(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, posts)
}

// ListByUser handles GET /users/{id}/posts.
func (h PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Posts == nil {
		unavailableDependency(ctx, w, "post service")
		return
	}

	posts, err := h.Posts.ListByUser(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, posts)
}

// Create handles POST /posts with multipart fields user_id, content, type and an optional file.
func (h PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Posts == nil {
		unavailableDependency(ctx, w, "post service")
		return
	}
	if !uploadAllowed(h.Limiter, r) {
		respondRateLimited(ctx, w)
		return
	}

	cleanup, err := parseMultipart(r)
	defer cleanup()
	if err != nil {
		respondBadBody(ctx, w, err)
		return
	}

	media, closeFile, err := formUpload(r, "file")
	defer closeFile()
	if err != nil {
		respondBadBody(ctx, w, err)
		return
	}

	post, err := h.Posts.Create(ctx, services.CreatePostInput{
		AuthorID: r.FormValue("user_id"),
		Content:  r.FormValue("content"),
		Type:     r.FormValue("type"),
		Media:    media,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, post)
}

// Like handles POST /posts/{id}/like.
func (h PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Posts == nil {
		unavailableDependency(ctx, w, "post service")
		return
	}

	res, err := h.Posts.Like(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, res)
}

// Comments handles GET /posts/{id}/comments.
func (h PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Posts == nil {
		unavailableDependency(ctx, w, "post service")
		return
	}

	comments, err := h.Posts.Comments(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, comments)
}

// AddComment handles POST /posts/{id}/comments.
func (h PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Posts == nil {
		unavailableDependency(ctx, w, "post service")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadBody(ctx, w, err)
		return
	}

	comment, err := h.Posts.AddComment(ctx, r.PathValue("id"), req.AuthorID, req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, comment)
}
