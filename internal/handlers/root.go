package handlers

import "net/http"

// Root implements GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Welcome to the Podium sports networking API"})
}
