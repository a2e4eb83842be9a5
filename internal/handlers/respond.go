package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/urlkit/urlkit/internal/models"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
	respondJSON(w, status, errResp)
}
