package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/storage"
)

var (
	// ErrUnauthorized means the presented API key matched no active user.
	ErrUnauthorized = errors.New("invalid api key")

	ErrInvalidEmail = errors.New("invalid email address")
)

type UserService struct {
	users storage.UserStore
}

func NewUserService(users storage.UserStore) *UserService {
	return &UserService{users: users}
}

// Create registers a new principal and mints its API key. Email is optional
// but unique when given.
func (s *UserService) Create(ctx context.Context, email string) (*models.CreateUserResponse, error) {
	email = strings.TrimSpace(email)
	if email != "" && !isPlausibleEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.Create(ctx, email, mintAPIKey())
	if err != nil {
		return nil, err
	}

	return &models.CreateUserResponse{
		APIKey:    user.APIKey,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Authenticate resolves an API key to its user.
func (s *UserService) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByAPIKey(ctx, apiKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Info(ctx context.Context, user *models.User) (*models.UserInfoResponse, error) {
	totalURLs, totalClicks, err := s.users.URLTotals(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.UserInfoResponse{
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
		TotalURLs:   totalURLs,
		TotalClicks: totalClicks,
	}, nil
}

// mintAPIKey produces a 32-character opaque token.
func mintAPIKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func isPlausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
