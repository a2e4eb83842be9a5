package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urlkit/urlkit/internal/cache"
	"github.com/urlkit/urlkit/internal/config"
	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/events"
	"github.com/urlkit/urlkit/internal/filter"
	"github.com/urlkit/urlkit/internal/handlers"
	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/redis"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/storage"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	ctx := context.Background()

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

	if err := storage.EnsureSchema(ctx, dbManager); err != nil {
		log.Fatal("Failed to apply schema: %v", err)
	}

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	urlStore := storage.NewPostgresURLStore(dbManager)
	userStore := storage.NewPostgresUserStore(dbManager)
	clickStore := storage.NewPostgresClickStore(dbManager)
	counter := storage.NewCounterStore(dbManager)

	urlCache := cache.NewRedisCache(redisClient.GetClient(), cfg.Cache.Timeout)
	producer := events.NewClickProducer(redisClient.GetClient(), cfg.Redis.StreamName)

	var bloomFilter *filter.BloomFilter
	if cfg.Bloom.Enabled {
		bloomFilter = filter.NewBloomFilter(cfg.Bloom.Capacity, cfg.Bloom.FalsePositiveRate)
	}

	urlService := service.NewURLService(service.URLServiceConfig{
		URLs:     urlStore,
		Clicks:   clickStore,
		Counter:  counter,
		Cache:    urlCache,
		Producer: producer,
		Bloom:    bloomFilter,
		BaseURL:  cfg.Server.BaseURL,
		CacheTTL: cfg.Cache.TTL,
	})
	userService := service.NewUserService(userStore)

	if cfg.Bloom.Enabled {
		warmed, err := urlService.WarmBloomFilter(ctx)
		if err != nil {
			log.Fatal("Failed to warm bloom filter: %v", err)
		}
		log.Info("Bloom filter warmed with %d codes", warmed)
	}

	shortenLimiter := middleware.NewRateLimiter(redisClient.GetClient(), "shorten",
		cfg.RateLimit.ShortenRequests, cfg.RateLimit.ShortenWindow)
	userCreateLimiter := middleware.NewRateLimiter(redisClient.GetClient(), "user-create",
		cfg.RateLimit.UserCreateRequests, cfg.RateLimit.UserCreateWindow)

	handler := handlers.NewRouter(handlers.RouterConfig{
		URLs:            handlers.NewURLHandler(urlService, userService),
		Redirect:        handlers.NewRedirectHandler(urlService),
		Stats:           handlers.NewStatsHandler(urlService),
		Users:           handlers.NewUserHandler(userService),
		Health:          handlers.NewHealthHandler(dbManager, redisClient),
		Auth:            middleware.NewAuthMiddleware(userService),
		ShortenLimit:    shortenLimiter.LimitFunc,
		UserCreateLimit: userCreateLimiter.LimitFunc,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed: %v", err)
	}
}
