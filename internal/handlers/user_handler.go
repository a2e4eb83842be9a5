package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
)

type UserHandler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{
		users: users,
		log:   logger.New("user-handler"),
	}
}

// Create registers a user and returns the freshly minted API key. The key
// is only ever shown in this response.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	resp, err := h.users.Create(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, storage.ErrEmailConflict):
			respondError(w, http.StatusConflict, "email already registered")
		default:
			h.log.Error("Failed to create user: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	resp, err := h.users.Info(r.Context(), user)
	if err != nil {
		h.log.Error("Failed to fetch user info: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch user info")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
