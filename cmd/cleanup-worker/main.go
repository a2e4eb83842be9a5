package main

import (
	"context"
	"time"

	"github.com/urlkit/urlkit/internal/config"
	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/lock"
	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/redis"
	"github.com/urlkit/urlkit/internal/storage"
)

const lockKey = "cleanup:lock"

func main() {
	log := logger.New("cleanup-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	ctx := context.Background()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	dbManager, err := database.New(ctx, database.Config{
		PrimaryDSN:      cfg.Database.PrimaryDSN,
		ReplicaDSNs:     cfg.Database.ReplicaDSNs,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	urlStore := storage.NewPostgresURLStore(dbManager)

	log.Info("Cleanup worker started, running every %s", cfg.Cleanup.Interval)

	runCleanup(ctx, redisClient, urlStore, cfg.Cleanup.LockTTL, log)

	ticker := time.NewTicker(cfg.Cleanup.Interval)
	defer ticker.Stop()

	for range ticker.C {
		runCleanup(ctx, redisClient, urlStore, cfg.Cleanup.LockTTL, log)
	}
}

// runCleanup deactivates expired URLs under a distributed lock so only one
// replica sweeps per interval. Rows are kept for analytics; cached entries
// drain on their own TTL.
func runCleanup(ctx context.Context, redisClient *redis.RedisClient, urlStore *storage.PostgresURLStore, lockTTL time.Duration, log *logger.Logger) {
	sweepLock := lock.NewDistributedLock(redisClient.GetClient(), lockKey, lockTTL)

	acquired, err := sweepLock.Acquire(ctx)
	if err != nil {
		log.Error("Failed to acquire cleanup lock: %v", err)
		return
	}
	if !acquired {
		log.Debug("Another worker holds the cleanup lock, skipping")
		return
	}
	defer func() {
		if err := sweepLock.Release(ctx); err != nil {
			log.Warn("Failed to release cleanup lock: %v", err)
		}
	}()

	deactivated, err := urlStore.DeactivateExpired(ctx)
	if err != nil {
		log.Error("Failed to deactivate expired URLs: %v", err)
		return
	}

	if deactivated > 0 {
		log.Info("Deactivated %d expired URLs", deactivated)
	} else {
		log.Info("No expired URLs found")
	}
}
