package handlers

import (
	"net/http"

	"github.com/podium/backend/internal/services"
)

// TrainingHandler serves the training video library.
type TrainingHandler struct {
	Videos  TrainingVideoService
	Limiter RateLimiter
}

// List handles GET /training/videos. Responses are never cached so newly
// added videos show up immediately.
func (h TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Videos == nil {
		unavailableDependency(ctx, w, "training service")
		return
	}

	list, err := h.Videos.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	respondJSON(ctx, w, http.StatusOK, list)
}

// Create handles POST /training/videos with multipart fields title, author,
// description, type, video_url and file.
func (h TrainingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Videos == nil {
		unavailableDependency(ctx, w, "training service")
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

	file, closeFile, err := formUpload(r, "file")
	defer closeFile()
	if err != nil {
		respondBadBody(ctx, w, err)
		return
	}

	in := services.CreateTrainingVideoInput{
		Title:    r.FormValue("title"),
		Author:   r.FormValue("author"),
		Type:     r.FormValue("type"),
		VideoURL: r.FormValue("video_url"),
		File:     file,
	}
	if _, ok := r.PostForm["description"]; ok {
		description := r.FormValue("description")
		in.Description = &description
	}

	video, err := h.Videos.Create(ctx, in)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, video)
}

// OpportunityHandler serves opportunity listings.
type OpportunityHandler struct {
	Opportunities OpportunityService
}

// List handles GET /opportunities.
func (h OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Opportunities == nil {
		unavailableDependency(ctx, w, "opportunity service")
		return
	}

	list, err := h.Opportunities.List(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, list)
}
