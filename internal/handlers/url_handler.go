package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
	"github.com/urlkit/urlkit/internal/validation"
)

type URLHandler struct {
	urls  *service.URLService
	users *service.UserService
	log   *logger.Logger
}

func NewURLHandler(urls *service.URLService, users *service.UserService) *URLHandler {
	return &URLHandler{
		urls:  urls,
		users: users,
		log:   logger.New("url-handler"),
	}
}

// Shorten accepts anonymous and authenticated requests. The API key can
// arrive via middleware (header or query) or inside the JSON body.
func (h *URLHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user := middleware.UserFrom(r.Context())
	if user == nil && req.APIKey != "" {
		authed, err := h.users.Authenticate(r.Context(), req.APIKey)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				respondError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			h.log.Error("auth lookup failed: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to shorten URL")
			return
		}
		user = authed
	}

	var userID *int64
	if user != nil {
		userID = &user.ID
	}

	resp, err := h.urls.Shorten(r.Context(), &req, userID)
	if err != nil {
		switch {
		case validation.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrCodeConflict):
			respondError(w, http.StatusConflict, "short code already taken")
		default:
			h.log.Error("Failed to shorten URL: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to shorten URL")
		}
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Delete deactivates a code owned by the caller. The row survives for
// analytics; only resolution stops.
func (h *URLHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shortCode := r.PathValue("code")
	user := middleware.UserFrom(r.Context())

	err := h.urls.Deactivate(r.Context(), shortCode, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "short code not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to deactivate %s: %v", shortCode, err)
		respondError(w, http.StatusInternalServerError, "failed to delete URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *URLHandler) ListURLs(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.urls.ListURLs(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.log.Error("Failed to list URLs: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list URLs")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
