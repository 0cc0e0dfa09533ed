package handlers

import (
	"net/http"
)

// HealthHandler responds with service health information.
type HealthHandler struct {
	// Backend names the document store serving requests, e.g. "mongo" or "memory".
	Backend string
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
	// Persistent is false while running on the in-memory fallback.
	Persistent bool `json:"persistent"`
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, healthResponse{
		Status:     "ok",
		Store:      h.Backend,
		Persistent: h.Backend != "" && h.Backend != "memory",
	})
}
