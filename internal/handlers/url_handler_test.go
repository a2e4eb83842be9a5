package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urlkit/urlkit/internal/cache"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
)

type handlerEnv struct {
	urlSvc    *service.URLService
	userSvc   *service.UserService
	urlStore  *storage.MemoryURLStore
	userStore *storage.MemoryUserStore
}

func newHandlerEnv() *handlerEnv {
	urlStore := storage.NewMemoryURLStore()
	userStore := storage.NewMemoryUserStore()

	urlSvc := service.NewURLService(service.URLServiceConfig{
		URLs:     urlStore,
		Clicks:   storage.NewMemoryClickStore(),
		Counter:  storage.NewMemoryCounter(storage.CounterSeed),
		Cache:    cache.NewMemoryCache(),
		BaseURL:  "http://localhost:8080",
		CacheTTL: time.Hour,
	})

	return &handlerEnv{
		urlSvc:    urlSvc,
		userSvc:   service.NewUserService(userStore),
		urlStore:  urlStore,
		userStore: userStore,
	}
}

func shortenRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(payload))
}

func TestShortenHandler_Anonymous(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	req := shortenRequest(t, models.ShortenRequest{URL: "https://example.com/page"})
	rec := httptest.NewRecorder()

	handler.Shorten(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ShortenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.ShortCode) != 7 {
		t.Errorf("expected 7-char code, got '%s'", resp.ShortCode)
	}
}

func TestShortenHandler_InvalidJSON(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Shorten(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestShortenHandler_InvalidURL(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	req := shortenRequest(t, models.ShortenRequest{URL: "ftp://example.com"})
	rec := httptest.NewRecorder()

	handler.Shorten(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestShortenHandler_CustomCodeConflict(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	first := shortenRequest(t, models.ShortenRequest{URL: "https://example.com", CustomCode: "taken"})
	rec := httptest.NewRecorder()
	handler.Shorten(rec, first)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	second := shortenRequest(t, models.ShortenRequest{URL: "https://other.example.com", CustomCode: "taken"})
	rec = httptest.NewRecorder()
	handler.Shorten(rec, second)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestShortenHandler_BodyAPIKey(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	created, err := env.userSvc.Create(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := shortenRequest(t, models.ShortenRequest{
		URL:    "https://example.com",
		APIKey: created.APIKey,
	})
	rec := httptest.NewRecorder()
	handler.Shorten(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ShortenResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)

	url, err := env.urlStore.FindByCode(context.Background(), resp.ShortCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url.UserID == nil {
		t.Error("expected URL to be attributed to the key's user")
	}
}

func TestShortenHandler_BadBodyAPIKey(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	req := shortenRequest(t, models.ShortenRequest{
		URL:    "https://example.com",
		APIKey: "bogus",
	})
	rec := httptest.NewRecorder()
	handler.Shorten(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRedirectHandler(t *testing.T) {
	env := newHandlerEnv()
	handler := NewRedirectHandler(env.urlSvc)

	resp, err := env.urlSvc.Shorten(context.Background(), &models.ShortenRequest{URL: "https://example.com/dest"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil)
	req.SetPathValue("code", resp.ShortCode)
	rec := httptest.NewRecorder()

	handler.HandleRedirect(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "https://example.com/dest" {
		t.Errorf("unexpected Location header: %s", location)
	}
}

func TestRedirectHandler_NotFound(t *testing.T) {
	env := newHandlerEnv()
	handler := NewRedirectHandler(env.urlSvc)

	req := httptest.NewRequest(http.MethodGet, "/missing1", nil)
	req.SetPathValue("code", "missing1")
	rec := httptest.NewRecorder()

	handler.HandleRedirect(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStatsHandler_Forbidden(t *testing.T) {
	env := newHandlerEnv()
	handler := NewStatsHandler(env.urlSvc)

	owner := int64(1)
	resp, err := env.urlSvc.Shorten(context.Background(), &models.ShortenRequest{URL: "https://example.com"}, &owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intruder := &models.User{ID: 2, APIKey: "other"}
	req := httptest.NewRequest(http.MethodGet, "/api/stats/"+resp.ShortCode, nil)
	req.SetPathValue("code", resp.ShortCode)
	req = req.WithContext(middleware.WithUser(req.Context(), intruder))
	rec := httptest.NewRecorder()

	handler.HandleStats(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestStatsHandler_Owner(t *testing.T) {
	env := newHandlerEnv()
	handler := NewStatsHandler(env.urlSvc)

	owner := int64(1)
	resp, err := env.urlSvc.Shorten(context.Background(), &models.ShortenRequest{URL: "https://example.com"}, &owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := &models.User{ID: owner, APIKey: "key"}
	req := httptest.NewRequest(http.MethodGet, "/api/stats/"+resp.ShortCode, nil)
	req.SetPathValue("code", resp.ShortCode)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()

	handler.HandleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats models.StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.URL == nil || stats.URL.ShortCode != resp.ShortCode {
		t.Error("expected stats payload to echo the URL")
	}
}

func TestDeleteHandler(t *testing.T) {
	env := newHandlerEnv()
	handler := NewURLHandler(env.urlSvc, env.userSvc)

	owner := int64(1)
	resp, err := env.urlSvc.Shorten(context.Background(), &models.ShortenRequest{URL: "https://example.com"}, &owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := &models.User{ID: owner, APIKey: "key"}
	req := httptest.NewRequest(http.MethodDelete, "/api/url/"+resp.ShortCode, nil)
	req.SetPathValue("code", resp.ShortCode)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := env.urlStore.FindByCode(context.Background(), resp.ShortCode); err != storage.ErrNotFound {
		t.Errorf("expected code to be deactivated, got: %v", err)
	}
}

func TestUserHandler_CreateAndInfo(t *testing.T) {
	env := newHandlerEnv()
	handler := NewUserHandler(env.userSvc)

	payload, _ := json.Marshal(models.CreateUserRequest{Email: "dana@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/create", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created models.CreateUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(created.APIKey) != 32 {
		t.Errorf("expected 32-char API key, got %d chars", len(created.APIKey))
	}

	user, err := env.userSvc.Authenticate(context.Background(), created.APIKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	infoReq := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	infoReq = infoReq.WithContext(middleware.WithUser(infoReq.Context(), user))
	rec = httptest.NewRecorder()

	handler.Info(rec, infoReq)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_CreateEmptyBody(t *testing.T) {
	env := newHandlerEnv()
	handler := NewUserHandler(env.userSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/user/create", nil)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for empty body, got %d: %s", rec.Code, rec.Body.String())
	}
}
