package handlers

import (
	"net/http"

	"github.com/urlkit/urlkit/internal/middleware"
)

// Limit wraps a handler with a rate limiter. Identity when nil, which the
// tests use to stand in a rejecting or pass-through limiter.
type Limit func(http.HandlerFunc) http.HandlerFunc

type RouterConfig struct {
	URLs     *URLHandler
	Redirect *RedirectHandler
	Stats    *StatsHandler
	Users    *UserHandler
	Health   *HealthHandler
	Auth     *middleware.AuthMiddleware

	// Only the write endpoints are limited. Redirects, stats, and health
	// always pass through.
	ShortenLimit    Limit
	UserCreateLimit Limit
}

// NewRouter assembles the HTTP surface. More specific patterns win, so the
// API routes shadow the catch-all redirect.
func NewRouter(cfg RouterConfig) http.Handler {
	shortenLimit := orIdentity(cfg.ShortenLimit)
	userCreateLimit := orIdentity(cfg.UserCreateLimit)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/shorten", shortenLimit(cfg.Auth.OptionalAuth(cfg.URLs.Shorten)))
	mux.HandleFunc("GET /api/stats/{code}", cfg.Auth.OptionalAuth(cfg.Stats.HandleStats))
	mux.HandleFunc("POST /api/user/create", userCreateLimit(cfg.Users.Create))
	mux.HandleFunc("GET /api/user/info", cfg.Auth.RequireAuth(cfg.Users.Info))
	mux.HandleFunc("GET /api/user/urls", cfg.Auth.RequireAuth(cfg.URLs.ListURLs))
	mux.HandleFunc("DELETE /api/url/{code}", cfg.Auth.RequireAuth(cfg.URLs.Delete))
	mux.HandleFunc("GET /health", cfg.Health.HandleHealth)
	mux.HandleFunc("GET /{code}", cfg.Redirect.HandleRedirect)

	return middleware.Recovery(mux)
}

func orIdentity(limit Limit) Limit {
	if limit == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	return limit
}
