package storage

import (
	"context"
	"fmt"

	"github.com/urlkit/urlkit/internal/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         BIGSERIAL PRIMARY KEY,
    api_key    VARCHAR(64) NOT NULL UNIQUE,
    email      VARCHAR(120) UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS urls (
    id           BIGSERIAL PRIMARY KEY,
    original_url TEXT NOT NULL,
    short_code   VARCHAR(16) NOT NULL UNIQUE,
    user_id      BIGINT REFERENCES users(id),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at   TIMESTAMPTZ,
    is_active    BOOLEAN NOT NULL DEFAULT TRUE,
    click_count  BIGINT NOT NULL DEFAULT 0,
    is_custom    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_urls_user_id ON urls(user_id);

CREATE TABLE IF NOT EXISTS clicks (
    id          BIGSERIAL PRIMARY KEY,
    url_id      BIGINT NOT NULL REFERENCES urls(id) ON DELETE CASCADE,
    clicked_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    ip_address  VARCHAR(45),
    user_agent  TEXT,
    referer     TEXT,
    country     VARCHAR(10),
    browser     TEXT,
    os          TEXT,
    device_type VARCHAR(16)
);

CREATE INDEX IF NOT EXISTS idx_clicks_url_id ON clicks(url_id);
CREATE INDEX IF NOT EXISTS idx_clicks_clicked_at ON clicks(clicked_at);

CREATE TABLE IF NOT EXISTS counters (
    name  VARCHAR(50) PRIMARY KEY,
    value BIGINT NOT NULL
);
`

// EnsureSchema applies the DDL idempotently and seeds the URL counter at its
// starting offset. Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *database.Manager) error {
	if _, err := db.Write().Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	_, err := db.Write().Exec(ctx,
		`INSERT INTO counters (name, value) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		urlCounterName, CounterSeed,
	)
	if err != nil {
		return fmt.Errorf("failed to seed counter: %w", err)
	}

	return nil
}
