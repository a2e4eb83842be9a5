package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.SetWithTTL(ctx, URLKey("abc1234"), "https://example.com", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, err := c.Get(ctx, URLKey("abc1234"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "https://example.com" {
		t.Errorf("unexpected value: %s", value)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), URLKey("missing"))
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got: %v", err)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.SetWithTTL(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after TTL, got: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be dropped, %d entries left", c.Len())
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.SetWithTTL(ctx, "k", "v", time.Hour)
	c.Delete(ctx, "k")

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got: %v", err)
	}
}

func TestURLKey(t *testing.T) {
	if key := URLKey("abc1234"); key != "url:abc1234" {
		t.Errorf("unexpected key: %s", key)
	}
}
