package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/urlkit/urlkit/internal/events"
	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
)

type RedirectHandler struct {
	urls *service.URLService
	log  *logger.Logger
}

func NewRedirectHandler(urls *service.URLService) *RedirectHandler {
	return &RedirectHandler{
		urls: urls,
		log:  logger.New("redirect"),
	}
}

func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	shortCode := r.PathValue("code")
	if shortCode == "" {
		http.NotFound(w, r)
		return
	}

	click := &events.ClickEvent{
		Timestamp: time.Now().Unix(),
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}

	destination, err := h.urls.Resolve(r.Context(), shortCode, click)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("Failed to resolve %s: %v", shortCode, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, destination, http.StatusFound)
}
