// Package redis caches generated slot lists. Every write that can change a provider's
// slots bumps a per-provider version, so stale entries are never read again and age out by TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"barberq/backend/internal/domain"
)

const keyPrefix = "barberq:slots"

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type SlotCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func Open(ctx context.Context, opts Options) (*SlotCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewSlotCache(client, opts.TTL), nil
}

func NewSlotCache(client *goredis.Client, ttl time.Duration) *SlotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SlotCache{client: client, ttl: ttl}
}

func (c *SlotCache) Close() error {
	return c.client.Close()
}

func (c *SlotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func versionKey(providerID string) string {
	return keyPrefix + ":ver:" + providerID
}

// Get looks up the slot list for (providerID, serviceID, today). The returned key names the
// entry under the provider's current version and is what Put must be called with.
func (c *SlotCache) Get(ctx context.Context, providerID, serviceID, today string) ([]domain.Slot, string, bool, error) {
	ver, err := c.client.Get(ctx, versionKey(providerID)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, "", false, fmt.Errorf("redis get version: %w", err)
	}
	key := keyPrefix + ":" + providerID + ":" + serviceID + ":" + today + ":v" + strconv.FormatInt(ver, 10)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, key, false, nil
	}
	if err != nil {
		return nil, key, false, fmt.Errorf("redis get slots: %w", err)
	}

	var slots []domain.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, key, false, nil
	}
	return slots, key, true, nil
}

func (c *SlotCache) Put(ctx context.Context, key string, slots []domain.Slot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set slots: %w", err)
	}
	return nil
}

func (c *SlotCache) Invalidate(ctx context.Context, providerID string) error {
	if err := c.client.Incr(ctx, versionKey(providerID)).Err(); err != nil {
		return fmt.Errorf("redis bump version: %w", err)
	}
	return nil
}
