package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware resolves the X-API-Key header (or api_key query parameter)
// to a user and stashes it on the request context.
type AuthMiddleware struct {
	users *service.UserService
	log   *logger.Logger
}

func NewAuthMiddleware(users *service.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		users: users,
		log:   logger.New("auth-middleware"),
	}
}

func apiKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}

// RequireAuth rejects requests without a valid API key.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := apiKeyFromRequest(r)
		if apiKey == "" {
			http.Error(w, "API key required", http.StatusUnauthorized)
			return
		}

		user, err := m.users.Authenticate(r.Context(), apiKey)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				m.log.Error("auth lookup failed: %v", err)
			}
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches a user when a key is presented but lets anonymous
// requests through. A key that is present and wrong is still a 401: silently
// downgrading a typoed key to anonymous would misattribute the URL.
func (m *AuthMiddleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := apiKeyFromRequest(r)
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.Authenticate(r.Context(), apiKey)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				m.log.Error("auth lookup failed: %v", err)
			}
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

// WithUser is a test helper for building authenticated request contexts.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
