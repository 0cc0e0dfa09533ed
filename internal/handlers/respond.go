package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/podium/backend/internal/logging"
	"github.com/podium/backend/internal/services"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondDetail(ctx context.Context, w http.ResponseWriter, status int, detail string) {
	respondJSON(ctx, w, status, errorResponse{Detail: detail})
}

// respondError maps service error kinds onto HTTP status codes.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	respondDetail(ctx, w, status, err.Error())
}

// respondBadBody reports a request body that could not be read or parsed.
func respondBadBody(ctx context.Context, w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondDetail(ctx, w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	logging.FromContext(ctx).Warn("invalid request body", "error", err)
	respondDetail(ctx, w, http.StatusBadRequest, "invalid request body")
}

func unavailableDependency(ctx context.Context, w http.ResponseWriter, name string) {
	logging.FromContext(ctx).Error("handler dependency unavailable", "dependency", name)
	respondDetail(ctx, w, http.StatusInternalServerError, name+" unavailable")
}

func respondRateLimited(ctx context.Context, w http.ResponseWriter) {
	respondDetail(ctx, w, http.StatusTooManyRequests, "too many upload requests, try again later")
}
