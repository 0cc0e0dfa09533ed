package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/podium/backend/internal/services"
)

// UserHandler serves user listings and profile management.
type UserHandler struct {
	Users   UserService
	Limiter RateLimiter
}

// List handles GET /users.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		unavailableDependency(ctx, w, "user service")
		return
	}

	users, err := h.Users.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, users)
}

// Get handles GET /users/{id}.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		unavailableDependency(ctx, w, "user service")
		return
	}

	user, err := h.Users.Get(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, user)
}

// GetProfile handles GET /profiles/{id}.
func (h UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		unavailableDependency(ctx, w, "user service")
		return
	}

	user, err := h.Users.GetProfile(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, user)
}

// CreateProfile handles POST /profiles.
func (h UserHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		unavailableDependency(ctx, w, "user service")
		return
	}

	var req services.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadBody(ctx, w, err)
		return
	}

	user, err := h.Users.Create(ctx, req)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, user)
}

// UpdateProfile handles PUT /profiles/{id}. Only keys present in the body are applied.
func (h UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		unavailableDependency(ctx, w, "user service")
		return
	}

	patch := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		respondBadBody(ctx, w, err)
		return
	}

	user, err := h.Users.Update(ctx, r.PathValue("id"), patch)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, user)
}

// UploadProfileImage handles POST /profiles/{id}/image.
func (h UserHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.uploadProfile)
}

// UploadCoverImage handles POST /profiles/{id}/cover.
func (h UserHandler) UploadCoverImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.uploadCover)
}

func (h UserHandler) uploadProfile(r *http.Request, up services.Upload) (services.ImageUploadResult, error) {
	return h.Users.UploadProfileImage(r.Context(), r.PathValue("id"), up)
}

func (h UserHandler) uploadCover(r *http.Request, up services.Upload) (services.ImageUploadResult, error) {
	return h.Users.UploadCoverImage(r.Context(), r.PathValue("id"), up)
}

func (h UserHandler) upload(w http.ResponseWriter, r *http.Request, store func(*http.Request, services.Upload) (services.ImageUploadResult, error)) {
	ctx := r.Context()
	if h.Users == nil {
		unavailableDependency(ctx, w, "user service")
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

	up, closeFile, err := formUpload(r, "file")
	defer closeFile()
	if err != nil {
		respondBadBody(ctx, w, err)
		return
	}
	if up == nil {
		respondDetail(ctx, w, http.StatusBadRequest, "file is required")
		return
	}

	res, err := store(r, *up)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, res)
}
