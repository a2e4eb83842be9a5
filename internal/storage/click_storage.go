package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/models"
)

// ClickRow is a click event ready for insertion, keyed by short code. The
// url_id is resolved inside the insert so producers never need to know row
// identifiers.
type ClickRow struct {
	ShortCode  string
	ClickedAt  time.Time
	IPAddress  string
	UserAgent  string
	Referer    string
	Country    string
	Browser    string
	OS         string
	DeviceType string
}

type PostgresClickStore struct {
	db *database.Manager
}

func NewPostgresClickStore(db *database.Manager) *PostgresClickStore {
	return &PostgresClickStore{db: db}
}

// InsertBatch writes a batch of click rows and bumps the per-URL click
// counters in a single transaction. Events for unknown codes are dropped by
// the WHERE clause instead of failing the batch.
func (s *PostgresClickStore) InsertBatch(ctx context.Context, rows []ClickRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	tx, err := s.db.Write().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO clicks (url_id, clicked_at, ip_address, user_agent, referer, country, browser, os, device_type)
		SELECT id, $2, $3, $4, $5, $6, $7, $8, $9
		FROM urls
		WHERE short_code = $1
	`

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		_, err := tx.Exec(ctx, insert,
			row.ShortCode,
			row.ClickedAt,
			row.IPAddress,
			row.UserAgent,
			row.Referer,
			row.Country,
			row.Browser,
			row.OS,
			row.DeviceType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert click: %w", err)
		}
		counts[row.ShortCode]++
	}

	for code, delta := range counts {
		_, err := tx.Exec(ctx,
			`UPDATE urls SET click_count = click_count + $1 WHERE short_code = $2`,
			delta, code,
		)
		if err != nil {
			return fmt.Errorf("failed to increment clicks: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresClickStore) CountByURL(ctx context.Context, urlID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	err := s.db.Read().QueryRow(ctx,
		`SELECT COUNT(*) FROM clicks WHERE url_id = $1`, urlID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	return count, nil
}

// DailyHistogram buckets clicks per calendar day for the trailing window.
// Keys use the 2006-01-02 form the stats payload exposes.
func (s *PostgresClickStore) DailyHistogram(ctx context.Context, urlID int64, days int) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT date_trunc('day', clicked_at) AS bucket, COUNT(*)
		FROM clicks
		WHERE url_id = $1 AND clicked_at > $2
		GROUP BY bucket
		ORDER BY bucket ASC
	`

	start := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	rows, err := s.db.Read().Query(ctx, query, urlID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query histogram: %w", err)
	}
	defer rows.Close()

	histogram := make(map[string]int64)
	for rows.Next() {
		var bucket time.Time
		var clicks int64
		if err := rows.Scan(&bucket, &clicks); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		histogram[bucket.Format("2006-01-02")] = clicks
	}

	return histogram, rows.Err()
}

func (s *PostgresClickStore) RecentByURL(ctx context.Context, urlID int64, limit int) ([]models.ClickRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT clicked_at, COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(referer, ''),
		       COALESCE(country, ''), COALESCE(browser, ''), COALESCE(os, ''), COALESCE(device_type, '')
		FROM clicks
		WHERE url_id = $1
		ORDER BY clicked_at DESC
		LIMIT $2
	`

	rows, err := s.db.Read().Query(ctx, query, urlID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent clicks: %w", err)
	}
	defer rows.Close()

	var records []models.ClickRecord
	for rows.Next() {
		var rec models.ClickRecord
		err := rows.Scan(
			&rec.ClickedAt,
			&rec.IPAddress,
			&rec.UserAgent,
			&rec.Referer,
			&rec.Country,
			&rec.Browser,
			&rec.OS,
			&rec.DeviceType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
