package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/config"
)

// SlotCache is the fast-path copy of generated availability, read by the
// public booking endpoint. The availability_days table stays the durable
// source; cache failures are never fatal.
type SlotCache interface {
	GetDay(ctx context.Context, tenantID, staffID uint, date string) (string, bool)
	StoreDay(ctx context.Context, tenantID, staffID uint, date string, slotsJSON string)
	InvalidateStaff(ctx context.Context, tenantID, staffID uint)
}

type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisSlotCache(cfg *config.Config, log *zap.Logger) *RedisSlotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &RedisSlotCache{
		client: client,
		ttl:    cfg.SlotCacheTTL,
		log:    log.Named("slot_cache"),
	}
}

func dayKey(tenantID, staffID uint, date string) string {
	return fmt.Sprintf("slots:%d:%d:%s", tenantID, staffID, date)
}

func staffPattern(tenantID, staffID uint) string {
	return fmt.Sprintf("slots:%d:%d:*", tenantID, staffID)
}

func (c *RedisSlotCache) GetDay(
	ctx context.Context,
	tenantID, staffID uint,
	date string,
) (string, bool) {

	val, err := c.client.Get(ctx, dayKey(tenantID, staffID, date)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn("slot cache read failed",
			zap.Uint("staffId", staffID),
			zap.String("date", date),
			zap.Error(err),
		)
		return "", false
	}

	return val, true
}

func (c *RedisSlotCache) StoreDay(
	ctx context.Context,
	tenantID, staffID uint,
	date string,
	slotsJSON string,
) {
	if err := c.client.Set(ctx, dayKey(tenantID, staffID, date), slotsJSON, c.ttl).Err(); err != nil {
		c.log.Warn("slot cache write failed",
			zap.Uint("staffId", staffID),
			zap.String("date", date),
			zap.Error(err),
		)
	}
}

// InvalidateStaff drops every cached day for one instructor. Called when a
// mutation enqueues a recalculation, so stale slots disappear before the
// worker has regenerated them.
func (c *RedisSlotCache) InvalidateStaff(ctx context.Context, tenantID, staffID uint) {
	iter := c.client.Scan(ctx, 0, staffPattern(tenantID, staffID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("slot cache invalidation failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("slot cache scan failed", zap.Error(err))
	}
}

var _ SlotCache = (*RedisSlotCache)(nil)
