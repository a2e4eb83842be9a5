package handlers

import (
	"errors"
	"net/http"

	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
)

type StatsHandler struct {
	urls *service.URLService
	log  *logger.Logger
}

func NewStatsHandler(urls *service.URLService) *StatsHandler {
	return &StatsHandler{
		urls: urls,
		log:  logger.New("stats"),
	}
}

func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	shortCode := r.PathValue("code")
	user := middleware.UserFrom(r.Context())

	stats, err := h.urls.Stats(r.Context(), shortCode, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondError(w, http.StatusNotFound, "short code not found")
		case errors.Is(err, service.ErrForbidden):
			respondError(w, http.StatusForbidden, "you do not own this URL")
		default:
			h.log.Error("Failed to build stats for %s: %v", shortCode, err)
			respondError(w, http.StatusInternalServerError, "failed to fetch stats")
		}
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
