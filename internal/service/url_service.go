package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urlkit/urlkit/internal/cache"
	"github.com/urlkit/urlkit/internal/events"
	"github.com/urlkit/urlkit/internal/filter"
	"github.com/urlkit/urlkit/internal/idgen"
	"github.com/urlkit/urlkit/internal/logger"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/qrcode"
	"github.com/urlkit/urlkit/internal/storage"
	"github.com/urlkit/urlkit/internal/validation"
)

var (
	// ErrForbidden means the caller is authenticated but does not own the
	// resource it asked about.
	ErrForbidden = errors.New("forbidden")
)

// ClickPublisher decouples the redirect path from the stream transport.
type ClickPublisher interface {
	Publish(ctx context.Context, event *events.ClickEvent) error
}

// URLService owns the shorten/resolve/stats flows. The cache and the click
// stream are both best-effort: losing either degrades latency or analytics,
// never correctness of the redirect itself.
type URLService struct {
	urls     storage.URLStore
	clicks   storage.ClickStore
	counter  storage.Counter
	cache    cache.Cache
	producer ClickPublisher
	bloom    *filter.BloomFilter
	log      *logger.Logger
	baseURL  string
	cacheTTL time.Duration
}

type URLServiceConfig struct {
	URLs     storage.URLStore
	Clicks   storage.ClickStore
	Counter  storage.Counter
	Cache    cache.Cache
	Producer ClickPublisher
	Bloom    *filter.BloomFilter
	BaseURL  string
	CacheTTL time.Duration
}

func NewURLService(cfg URLServiceConfig) *URLService {
	return &URLService{
		urls:     cfg.URLs,
		clicks:   cfg.Clicks,
		counter:  cfg.Counter,
		cache:    cfg.Cache,
		producer: cfg.Producer,
		bloom:    cfg.Bloom,
		log:      logger.New("url-service"),
		baseURL:  cfg.BaseURL,
		cacheTTL: cfg.CacheTTL,
	}
}

// Shorten validates the request, picks a code (custom or counter-derived),
// and persists the mapping. Custom and generated codes share one uniqueness
// namespace, so either path can surface storage.ErrCodeConflict.
func (s *URLService) Shorten(ctx context.Context, req *models.ShortenRequest, userID *int64) (*models.ShortenResponse, error) {
	if err := validation.ValidateURL(req.URL); err != nil {
		return nil, err
	}

	var shortCode string
	isCustom := false

	if req.CustomCode != "" {
		if err := validation.ValidateCustomCode(req.CustomCode); err != nil {
			return nil, err
		}
		shortCode = req.CustomCode
		isCustom = true
	} else {
		id, err := s.counter.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate counter: %w", err)
		}
		shortCode = idgen.Encode(id)
	}

	var expiresAt *time.Time
	if req.ExpiresInDays > 0 {
		t := time.Now().Add(time.Duration(req.ExpiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	url := &models.URL{
		OriginalURL: req.URL,
		ShortCode:   shortCode,
		UserID:      userID,
		ExpiresAt:   expiresAt,
		IsCustom:    isCustom,
	}

	created, err := s.urls.Create(ctx, url)
	if err != nil {
		return nil, err
	}

	if s.bloom != nil {
		s.bloom.Add(created.ShortCode)
	}

	if err := s.cache.SetWithTTL(ctx, cache.URLKey(created.ShortCode), created.OriginalURL, s.cacheTTL); err != nil {
		s.log.Warn("cache warm failed for %s: %v", created.ShortCode, err)
	}

	shortURL := s.baseURL + "/" + created.ShortCode

	qr, err := qrcode.GenerateQRCode(shortURL)
	if err != nil {
		s.log.Warn("QR generation failed for %s: %v", created.ShortCode, err)
		qr = ""
	}

	return &models.ShortenResponse{
		ShortURL:    shortURL,
		ShortCode:   created.ShortCode,
		OriginalURL: created.OriginalURL,
		CreatedAt:   created.CreatedAt,
		ExpiresAt:   created.ExpiresAt,
		QRCode:      qr,
	}, nil
}

// Resolve returns the destination for a code, preferring the cache and
// falling back to the store. A non-nil click is published to the analytics
// stream after a successful resolution.
//
// Cache entries are trusted for their full TTL: a link deactivated or
// expired after being cached keeps redirecting until the entry lapses.
func (s *URLService) Resolve(ctx context.Context, shortCode string, click *events.ClickEvent) (string, error) {
	if s.bloom != nil && !s.bloom.MayContain(shortCode) {
		return "", storage.ErrNotFound
	}

	key := cache.URLKey(shortCode)

	destination, err := s.cache.Get(ctx, key)
	if err == nil {
		s.publishClick(ctx, shortCode, click)
		return destination, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache get failed for %s: %v", shortCode, err)
	}

	url, err := s.urls.FindByCode(ctx, shortCode)
	if err != nil {
		return "", err
	}

	if url.IsExpired(time.Now()) {
		return "", storage.ErrNotFound
	}

	if err := s.cache.SetWithTTL(ctx, key, url.OriginalURL, s.cacheTTL); err != nil {
		s.log.Warn("cache set failed for %s: %v", shortCode, err)
	}

	s.publishClick(ctx, shortCode, click)
	return url.OriginalURL, nil
}

func (s *URLService) publishClick(ctx context.Context, shortCode string, click *events.ClickEvent) {
	if s.producer == nil || click == nil {
		return
	}

	click.ShortCode = shortCode
	if click.Timestamp == 0 {
		click.Timestamp = time.Now().Unix()
	}

	if err := s.producer.Publish(ctx, click); err != nil {
		s.log.Warn("click publish failed for %s: %v", shortCode, err)
	}
}

// Deactivate retires a code owned by userID. The cached entry is left to
// expire on its own TTL rather than being purged.
func (s *URLService) Deactivate(ctx context.Context, shortCode string, userID int64) error {
	return s.urls.Deactivate(ctx, shortCode, userID)
}

// Stats aggregates totals, a trailing 30-day histogram, and the most recent
// clicks for a code. Stats are public; presenting a key for a URL someone
// else owns is refused rather than silently answered.
func (s *URLService) Stats(ctx context.Context, shortCode string, user *models.User) (*models.StatsResponse, error) {
	url, err := s.urls.FindByCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	if user != nil && url.UserID != nil && *url.UserID != user.ID {
		return nil, ErrForbidden
	}

	total, err := s.clicks.CountByURL(ctx, url.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}

	daily, err := s.clicks.DailyHistogram(ctx, url.ID, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to build histogram: %w", err)
	}

	recent, err := s.clicks.RecentByURL(ctx, url.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent clicks: %w", err)
	}

	return &models.StatsResponse{
		URL:          url,
		TotalClicks:  total,
		DailyClicks:  daily,
		RecentClicks: recent,
	}, nil
}

func (s *URLService) ListURLs(ctx context.Context, userID int64, limit, offset int) (*models.ListURLsResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	urls, total, err := s.urls.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	if urls == nil {
		urls = []*models.URL{}
	}

	return &models.ListURLsResponse{
		URLs:  urls,
		Total: total,
	}, nil
}

// WarmBloomFilter streams every active code into the filter at startup.
func (s *URLService) WarmBloomFilter(ctx context.Context) (int, error) {
	if s.bloom == nil {
		return 0, nil
	}

	count := 0
	err := s.urls.EachCode(ctx, func(code string) error {
		s.bloom.Add(code)
		count++
		return nil
	})
	return count, err
}
