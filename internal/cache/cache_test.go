package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Errorf("Get() on empty cache reported a hit")
	}

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(ctx, "key")
	if !ok {
		t.Fatalf("Get() reported a miss after Set()")
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get() = %q, want value", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, ok := c.Get(ctx, "key"); !ok {
		t.Errorf("Get() missed a fresh entry")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "key"); ok {
		t.Errorf("Get() hit an expired entry")
	}

	// The expired entry is evicted, not just hidden.
	c.mu.RLock()
	_, present := c.entries["key"]
	c.mu.RUnlock()
	if present {
		t.Errorf("expired entry was not evicted")
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	current = current.Add(24 * 365 * time.Hour)
	if _, ok := c.Get(ctx, "key"); !ok {
		t.Errorf("Get() expired an entry with zero ttl")
	}
}

func TestMemoryCacheClose(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := c.Get(ctx, "key"); ok {
		t.Errorf("Get() hit after Close()")
	}
}

// Construction does not dial; connectivity is checked separately via Ping.
func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache("127.0.0.1:6379", time.Minute)
	if c == nil {
		t.Fatal("NewRedisCache() returned nil")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestCacheInterfaces(t *testing.T) {
	var _ Cache = NewMemoryCache(0)
	var _ Cache = &RedisCache{}
}
