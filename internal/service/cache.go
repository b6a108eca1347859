package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const skuLookupTTL = 10 * time.Minute

// Cache is a best-effort JSON cache over Redis. A nil client or any Redis
// error degrades to a miss; callers always fall back to the database.
type Cache struct {
	rdb          *redis.Client
	dashboardTTL time.Duration
}

func NewCache(rdb *redis.Client, dashboardTTL time.Duration) *Cache {
	return &Cache{rdb: rdb, dashboardTTL: dashboardTTL}
}

func dashboardKey(businessID uuid.UUID) string { return "dashboard:" + businessID.String() }

func skuKey(businessID uuid.UUID, sku string) string {
	return "sku:" + businessID.String() + ":" + sku
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *Cache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil || ttl <= 0 {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, ttl).Err()
	}
}

func (c *Cache) del(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}

func (c *Cache) dashboardTTLOrZero() time.Duration {
	if c == nil {
		return 0
	}
	return c.dashboardTTL
}

// InvalidateDashboard drops the cached dashboard of a business after a write
// that changes its figures.
func (c *Cache) InvalidateDashboard(ctx context.Context, businessID uuid.UUID) {
	c.del(ctx, dashboardKey(businessID))
}

// ForgetSKU drops cached lookups for the given SKUs.
func (c *Cache) ForgetSKU(ctx context.Context, businessID uuid.UUID, skus ...string) {
	keys := make([]string, 0, len(skus))
	for _, s := range skus {
		keys = append(keys, skuKey(businessID, s))
	}
	c.del(ctx, keys...)
}
