package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/redis"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type HealthHandler struct {
	db    *database.Manager
	redis *redis.RedisClient
	log   *logger.Logger
}

func NewHealthHandler(db *database.Manager, redisClient *redis.RedisClient) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
		log:   logger.New("health"),
	}
}

// HandleHealth reports the version and the state of both backing stores.
// Any failed check turns the overall status to degraded with a 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	if h.db == nil {
		checks["database"] = "unreachable"
		healthy = false
	} else if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed: %v", err)
		checks["database"] = "unreachable"
		healthy = false
	}

	if h.redis == nil {
		checks["redis"] = "unreachable"
		healthy = false
	} else if err := h.redis.Ping(ctx); err != nil {
		h.log.Warn("redis ping failed: %v", err)
		checks["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":  overall,
		"version": Version,
		"checks":  checks,
	})
}
