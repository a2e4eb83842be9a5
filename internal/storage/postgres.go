package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/models"
)

const (
	queryTimeout = 5 * time.Second
	scanTimeout  = 30 * time.Second
)

type PostgresURLStore struct {
	db *database.Manager
}

func NewPostgresURLStore(db *database.Manager) *PostgresURLStore {
	return &PostgresURLStore{db: db}
}

func (s *PostgresURLStore) Create(ctx context.Context, url *models.URL) (*models.URL, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO urls (original_url, short_code, user_id, expires_at, is_custom)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, is_active, click_count
	`

	err := s.db.Write().QueryRow(ctx, query,
		url.OriginalURL,
		url.ShortCode,
		url.UserID,
		url.ExpiresAt,
		url.IsCustom,
	).Scan(&url.ID, &url.CreatedAt, &url.IsActive, &url.ClickCount)

	if isUniqueViolation(err) {
		return nil, ErrCodeConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save URL: %w", err)
	}

	return url, nil
}

// FindByCode returns the active row for a code, expired or not; expiry is the
// caller's decision. Deactivated rows behave as absent.
func (s *PostgresURLStore) FindByCode(ctx context.Context, code string) (*models.URL, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, original_url, short_code, user_id, created_at, expires_at, is_active, click_count, is_custom
		FROM urls
		WHERE short_code = $1 AND is_active = TRUE
	`

	var url models.URL
	err := s.db.Read().QueryRow(ctx, query, code).Scan(
		&url.ID,
		&url.OriginalURL,
		&url.ShortCode,
		&url.UserID,
		&url.CreatedAt,
		&url.ExpiresAt,
		&url.IsActive,
		&url.ClickCount,
		&url.IsCustom,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get URL: %w", err)
	}

	return &url, nil
}

func (s *PostgresURLStore) IncrementClicks(ctx context.Context, code string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE urls
		SET click_count = click_count + $1
		WHERE short_code = $2
	`

	cmdTag, err := s.db.Write().Exec(ctx, query, delta, code)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Deactivate flips is_active for a row owned by userID. The row and its
// clicks stay in place; only resolution stops.
func (s *PostgresURLStore) Deactivate(ctx context.Context, code string, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE urls
		SET is_active = FALSE
		WHERE short_code = $1 AND user_id = $2 AND is_active = TRUE
	`

	cmdTag, err := s.db.Write().Exec(ctx, query, code, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate URL: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresURLStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.URL, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, original_url, short_code, user_id, created_at, expires_at, is_active, click_count, is_custom
		FROM urls
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.Read().Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var urls []*models.URL
	for rows.Next() {
		var url models.URL
		err := rows.Scan(
			&url.ID,
			&url.OriginalURL,
			&url.ShortCode,
			&url.UserID,
			&url.CreatedAt,
			&url.ExpiresAt,
			&url.IsActive,
			&url.ClickCount,
			&url.IsCustom,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		urls = append(urls, &url)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	var total int64
	err = s.db.Read().QueryRow(ctx,
		`SELECT COUNT(*) FROM urls WHERE user_id = $1 AND is_active = TRUE`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count URLs: %w", err)
	}

	return urls, total, nil
}

// EachCode streams every active short code, used to warm the bloom filter.
func (s *PostgresURLStore) EachCode(ctx context.Context, fn func(code string) error) error {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	rows, err := s.db.Read().Query(ctx, `SELECT short_code FROM urls WHERE is_active = TRUE`)
	if err != nil {
		return fmt.Errorf("failed to scan codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return fmt.Errorf("failed to scan code: %w", err)
		}
		if err := fn(code); err != nil {
			return err
		}
	}
	return rows.Err()
}

// DeactivateExpired is the cleanup worker's sweep. Rows are never deleted,
// matching the data lifecycle: expired links just stop resolving.
func (s *PostgresURLStore) DeactivateExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	query := `
		UPDATE urls
		SET is_active = FALSE
		WHERE expires_at IS NOT NULL AND expires_at < NOW() AND is_active = TRUE
	`

	cmdTag, err := s.db.Write().Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired URLs: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
