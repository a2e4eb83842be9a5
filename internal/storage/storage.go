package storage

import (
	"context"
	"errors"

	"github.com/urlkit/urlkit/internal/models"
)

var (
	// ErrCodeConflict maps the unique constraint on urls.short_code. Custom
	// and generated codes share the constraint, so whichever insert comes
	// second loses regardless of the code's origin.
	ErrCodeConflict = errors.New("short code already taken")

	// ErrNotFound covers lookups that match no active row.
	ErrNotFound = errors.New("not found")

	// ErrEmailConflict maps the unique constraint on users.email.
	ErrEmailConflict = errors.New("email already registered")
)

// URLStore is the data-access surface the service layer is written against.
type URLStore interface {
	Create(ctx context.Context, url *models.URL) (*models.URL, error)
	FindByCode(ctx context.Context, code string) (*models.URL, error)
	IncrementClicks(ctx context.Context, code string, delta int64) error
	Deactivate(ctx context.Context, code string, userID int64) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.URL, int64, error)
	EachCode(ctx context.Context, fn func(code string) error) error
}

// ClickStore serves the stats endpoint; writes happen in the analytics worker.
type ClickStore interface {
	CountByURL(ctx context.Context, urlID int64) (int64, error)
	DailyHistogram(ctx context.Context, urlID int64, days int) (map[string]int64, error)
	RecentByURL(ctx context.Context, urlID int64, limit int) ([]models.ClickRecord, error)
}

// UserStore manages API principals.
type UserStore interface {
	Create(ctx context.Context, email, apiKey string) (*models.User, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	URLTotals(ctx context.Context, userID int64) (urls int64, clicks int64, err error)
}

// Counter produces the next unique value for generated codes.
type Counter interface {
	Next(ctx context.Context) (int64, error)
}
