package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/urlkit/urlkit/internal/database"
)

const urlCounterName = "url_counter"

// CounterSeed keeps every generated code at a constant 7-character width for
// the first 62^7 - 10^11 allocations and clear of low-valued reserved codes.
const CounterSeed = int64(100000000000)

// CounterStore hands out strictly increasing counter values. The increment
// and the read happen in one statement; concurrent callers never observe the
// same value and never lose an update.
type CounterStore struct {
	db *database.Manager
}

func NewCounterStore(db *database.Manager) *CounterStore {
	return &CounterStore{db: db}
}

func (c *CounterStore) Next(ctx context.Context) (int64, error) {
	var value int64
	err := c.db.Write().QueryRow(ctx,
		`UPDATE counters SET value = value + 1 WHERE name = $1 RETURNING value`,
		urlCounterName,
	).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("counter %q is not seeded", urlCounterName)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter: %w", err)
	}

	return value, nil
}
