package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/urlkit/urlkit/internal/config"
	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/enrichment"
	"github.com/urlkit/urlkit/internal/events"
	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/redis"
	"github.com/urlkit/urlkit/internal/storage"
)

var (
	log           *logger.Logger
	streamName    string
	consumerGroup string
	consumerName  string
	batchSize     int
	pollInterval  time.Duration
	blockTime     time.Duration
)

func main() {
	log = logger.New("analytics-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	streamName = cfg.Redis.StreamName
	consumerGroup = cfg.Analytics.ConsumerGroup
	consumerName = cfg.Analytics.ConsumerName
	batchSize = cfg.Analytics.BatchSize
	pollInterval = cfg.Analytics.PollInterval
	blockTime = cfg.Analytics.BlockTime

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

	err = redisClient.GetClient().XGroupCreateMkStream(ctx, streamName, consumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		log.Fatal("Failed to create consumer group: %v", err)
	}

	clickStore := storage.NewPostgresClickStore(dbManager)
	geoIP := enrichment.NewGeoIPEnricher()
	defer geoIP.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info("Processing click events")
	go processEvents(ctx, redisClient.GetClient(), clickStore, geoIP)

	<-sigChan
	log.Info("Shutting down")
}

func processEvents(ctx context.Context, client *redislib.Client, clickStore *storage.PostgresClickStore, geoIP *enrichment.GeoIPEnricher) {
	for {
		messages, err := client.XReadGroup(ctx, &redislib.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{streamName, ">"},
			Count:    int64(batchSize),
			Block:    blockTime,
		}).Result()

		if err != nil {
			if err == redislib.Nil {
				continue
			}
			log.Error("Failed to read from stream: %v", err)
			time.Sleep(pollInterval)
			continue
		}

		for _, stream := range messages {
			if len(stream.Messages) == 0 {
				continue
			}

			rows := make([]storage.ClickRow, 0, len(stream.Messages))
			messageIDs := make([]string, 0, len(stream.Messages))

			for _, msg := range stream.Messages {
				event := events.EventFromValues(msg.Values)
				if event.ShortCode == "" {
					log.Warn("Invalid message format: %v", msg.ID)
					messageIDs = append(messageIDs, msg.ID)
					continue
				}

				rows = append(rows, enrichRow(event, geoIP))
				messageIDs = append(messageIDs, msg.ID)
			}

			if len(rows) > 0 {
				if err := clickStore.InsertBatch(ctx, rows); err != nil {
					log.Error("Failed to persist click batch: %v", err)
					continue
				}
				log.Debug("Processed %d events", len(rows))
			}

			if len(messageIDs) > 0 {
				if err := client.XAck(ctx, streamName, consumerGroup, messageIDs...).Err(); err != nil {
					log.Error("Failed to acknowledge messages: %v", err)
				}
			}
		}
	}
}

func enrichRow(event *events.ClickEvent, geoIP *enrichment.GeoIPEnricher) storage.ClickRow {
	ua := enrichment.ParseUserAgent(event.UserAgent)
	geo := geoIP.Lookup(event.IP)

	return storage.ClickRow{
		ShortCode:  event.ShortCode,
		ClickedAt:  event.ClickedAt(),
		IPAddress:  event.IP,
		UserAgent:  event.UserAgent,
		Referer:    event.Referer,
		Country:    geo.Country,
		Browser:    ua.Browser,
		OS:         ua.OS,
		DeviceType: ua.DeviceType,
	}
}
