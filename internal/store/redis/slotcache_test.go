package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"barberq/backend/internal/domain"
)

func openTestCache(t *testing.T) *SlotCache {
	t.Helper()
	addr := os.Getenv("BARBERQ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BARBERQ_TEST_REDIS_ADDR not set")
	}
	c, err := Open(context.Background(), Options{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSlotCache_PutGetInvalidate(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	provider := "p-" + uuid.NewString()
	service := uuid.NewString()
	slots := []domain.Slot{
		{Date: "2026-01-05", StartTime: "09:00", EndTime: "10:00"},
		{Date: "2026-01-05", StartTime: "10:00", EndTime: "11:00"},
	}

	_, key, ok, err := c.Get(ctx, provider, service, "2026-01-04")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := c.Put(ctx, key, slots); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, _, ok, err := c.Get(ctx, provider, service, "2026-01-04")
	if err != nil || !ok {
		t.Fatalf("Get after Put = %v, %v; want hit", ok, err)
	}
	if len(got) != 2 || got[1] != slots[1] {
		t.Fatalf("slots = %+v, want %+v", got, slots)
	}

	if _, _, ok, _ := c.Get(ctx, provider, service, "2026-01-05"); ok {
		t.Fatalf("expected miss for a different day")
	}

	if err := c.Invalidate(ctx, provider); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	_, newKey, ok, err := c.Get(ctx, provider, service, "2026-01-04")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after Invalidate")
	}
	if newKey == key {
		t.Fatalf("key did not change after Invalidate: %s", key)
	}
}
