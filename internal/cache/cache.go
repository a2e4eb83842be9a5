package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss marks an absent or expired key. Every other error means the
// backend itself failed and callers should fall through to the store.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the capability the resolver is written against. Entries are
// advisory: the store stays the source of truth and losing the whole cache
// costs latency, never data.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// URLKey namespaces resolution entries (url:<shortCode>).
func URLKey(shortCode string) string {
	return "url:" + shortCode
}
