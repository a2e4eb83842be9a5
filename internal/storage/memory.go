package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/urlkit/urlkit/internal/models"
)

// MemoryURLStore keeps URL rows in a locked map. It backs the service tests
// and honors the same contract as the Postgres store, including the shared
// uniqueness namespace for generated and custom codes.
type MemoryURLStore struct {
	mu     sync.RWMutex
	urls   map[string]*models.URL
	nextID int64
}

func NewMemoryURLStore() *MemoryURLStore {
	return &MemoryURLStore{urls: make(map[string]*models.URL)}
}

func (s *MemoryURLStore) Create(ctx context.Context, url *models.URL) (*models.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.urls[url.ShortCode]; exists {
		return nil, ErrCodeConflict
	}

	s.nextID++
	stored := *url
	stored.ID = s.nextID
	stored.IsActive = true
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.urls[url.ShortCode] = &stored

	out := stored
	return &out, nil
}

func (s *MemoryURLStore) FindByCode(ctx context.Context, code string) (*models.URL, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	url, exists := s.urls[code]
	if !exists || !url.IsActive {
		return nil, ErrNotFound
	}

	out := *url
	return &out, nil
}

func (s *MemoryURLStore) IncrementClicks(ctx context.Context, code string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	url, exists := s.urls[code]
	if !exists {
		return ErrNotFound
	}
	url.ClickCount += delta
	return nil
}

func (s *MemoryURLStore) Deactivate(ctx context.Context, code string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	url, exists := s.urls[code]
	if !exists || !url.IsActive || url.UserID == nil || *url.UserID != userID {
		return ErrNotFound
	}
	url.IsActive = false
	return nil
}

func (s *MemoryURLStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.URL, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*models.URL
	for _, url := range s.urls {
		if url.IsActive && url.UserID != nil && *url.UserID == userID {
			out := *url
			owned = append(owned, &out)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (s *MemoryURLStore) EachCode(ctx context.Context, fn func(code string) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for code, url := range s.urls {
		if !url.IsActive {
			continue
		}
		if err := fn(code); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryURLStore) DeactivateExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var n int64
	for _, url := range s.urls {
		if url.IsActive && url.IsExpired(now) {
			url.IsActive = false
			n++
		}
	}
	return n, nil
}

// MemoryCounter mirrors the single-statement increment-and-fetch contract:
// each call observes a distinct, strictly increasing value.
type MemoryCounter struct {
	mu    sync.Mutex
	value int64
}

func NewMemoryCounter(seed int64) *MemoryCounter {
	return &MemoryCounter{value: seed}
}

func (c *MemoryCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	return c.value, nil
}

// MemoryUserStore backs auth and user-endpoint tests.
type MemoryUserStore struct {
	mu     sync.RWMutex
	byKey  map[string]*models.User
	emails map[string]bool
	nextID int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byKey:  make(map[string]*models.User),
		emails: make(map[string]bool),
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, email, apiKey string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email != "" && s.emails[email] {
		return nil, ErrEmailConflict
	}

	s.nextID++
	user := &models.User{
		ID:        s.nextID,
		APIKey:    apiKey,
		Email:     email,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
	s.byKey[apiKey] = user
	if email != "" {
		s.emails[email] = true
	}

	out := *user
	return &out, nil
}

func (s *MemoryUserStore) FindByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byKey[apiKey]
	if !exists || !user.IsActive {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (s *MemoryUserStore) URLTotals(ctx context.Context, userID int64) (int64, int64, error) {
	return 0, 0, nil
}

// MemoryClickStore records click rows for stats tests.
type MemoryClickStore struct {
	mu   sync.RWMutex
	rows map[int64][]models.ClickRecord
}

func NewMemoryClickStore() *MemoryClickStore {
	return &MemoryClickStore{rows: make(map[int64][]models.ClickRecord)}
}

func (s *MemoryClickStore) Add(urlID int64, rec models.ClickRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[urlID] = append(s.rows[urlID], rec)
}

func (s *MemoryClickStore) CountByURL(ctx context.Context, urlID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows[urlID])), nil
}

func (s *MemoryClickStore) DailyHistogram(ctx context.Context, urlID int64, days int) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	histogram := make(map[string]int64)
	for _, rec := range s.rows[urlID] {
		if rec.ClickedAt.After(cutoff) {
			histogram[rec.ClickedAt.Format("2006-01-02")]++
		}
	}
	return histogram, nil
}

func (s *MemoryClickStore) RecentByURL(ctx context.Context, urlID int64, limit int) ([]models.ClickRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.rows[urlID]
	sorted := make([]models.ClickRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClickedAt.After(sorted[j].ClickedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}
