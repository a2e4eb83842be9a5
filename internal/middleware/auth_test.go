package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
)

func newAuthEnv(t *testing.T) (*AuthMiddleware, string) {
	t.Helper()

	users := service.NewUserService(storage.NewMemoryUserStore())
	created, err := users.Create(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return NewAuthMiddleware(users), created.APIKey
}

func TestRequireAuth_HeaderKey(t *testing.T) {
	auth, apiKey := newAuthEnv(t)

	var sawUser bool
	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		sawUser = UserFrom(r.Context()) != nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	req.Header.Set("X-API-Key", apiKey)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !sawUser {
		t.Error("expected user on request context")
	}
}

func TestRequireAuth_QueryKey(t *testing.T) {
	auth, apiKey := newAuthEnv(t)

	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/user/info?api_key="+apiKey, nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuth_MissingKey(t *testing.T) {
	auth, _ := newAuthEnv(t)

	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a key")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_BadKey(t *testing.T) {
	auth, _ := newAuthEnv(t)

	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a bad key")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	req.Header.Set("X-API-Key", "bogus")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	auth, _ := newAuthEnv(t)

	var user bool
	handler := auth.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		user = UserFrom(r.Context()) != nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if user {
		t.Error("expected anonymous request to carry no user")
	}
}

func TestOptionalAuth_WrongKeyRejected(t *testing.T) {
	auth, _ := newAuthEnv(t)

	handler := auth.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a wrong key")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
	req.Header.Set("X-API-Key", "bogus")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
