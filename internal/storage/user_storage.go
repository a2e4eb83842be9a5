package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/urlkit/urlkit/internal/database"
	"github.com/urlkit/urlkit/internal/models"
)

type PostgresUserStore struct {
	db *database.Manager
}

func NewPostgresUserStore(db *database.Manager) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, email, apiKey string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO users (api_key, email)
		VALUES ($1, NULLIF($2, ''))
		RETURNING id, api_key, COALESCE(email, ''), created_at, is_active
	`

	var user models.User
	err := s.db.Write().QueryRow(ctx, query, apiKey, email).Scan(
		&user.ID,
		&user.APIKey,
		&user.Email,
		&user.CreatedAt,
		&user.IsActive,
	)

	if isUniqueViolation(err) {
		return nil, ErrEmailConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *PostgresUserStore) FindByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, api_key, COALESCE(email, ''), created_at, is_active
		FROM users
		WHERE api_key = $1 AND is_active = TRUE
	`

	var user models.User
	err := s.db.Read().QueryRow(ctx, query, apiKey).Scan(
		&user.ID,
		&user.APIKey,
		&user.Email,
		&user.CreatedAt,
		&user.IsActive,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *PostgresUserStore) URLTotals(ctx context.Context, userID int64) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT COUNT(*), COALESCE(SUM(click_count), 0)
		FROM urls
		WHERE user_id = $1 AND is_active = TRUE
	`

	var urls, clicks int64
	if err := s.db.Read().QueryRow(ctx, query, userID).Scan(&urls, &clicks); err != nil {
		return 0, 0, fmt.Errorf("failed to total URLs: %w", err)
	}

	return urls, clicks, nil
}
