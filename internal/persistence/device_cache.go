package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

const deviceCachePrefix = "device:"

// DeviceCache keeps device registry lookups in redis for a short TTL so a
// terminal pushing every few seconds does not hammer postgres. Admin
// writes must call Invalidate so deactivation takes effect immediately;
// attendance dedup never goes through this cache.
type DeviceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDeviceCache builds a cache. A nil client or zero TTL disables caching.
func NewDeviceCache(r *Redis, ttl time.Duration, logger *zap.Logger) *DeviceCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &DeviceCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached device for a code, or nil on miss. Redis errors
// degrade to a miss.
func (c *DeviceCache) Get(ctx context.Context, code string) *domain.Device {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := c.client.Get(ctx, deviceCachePrefix+code).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("device cache read failed", zap.Error(err))
		}
		return nil
	}
	var device domain.Device
	if err := json.Unmarshal(raw, &device); err != nil {
		return nil
	}
	return &device
}

// Set stores a device lookup result.
func (c *DeviceCache) Set(ctx context.Context, device *domain.Device) {
	if c == nil || c.client == nil || c.ttl <= 0 || device == nil {
		return
	}
	raw, err := json.Marshal(device)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, deviceCachePrefix+device.Code, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("device cache write failed", zap.Error(err))
	}
}

// Invalidate drops a cached device after an admin write.
func (c *DeviceCache) Invalidate(ctx context.Context, code string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, deviceCachePrefix+code).Err(); err != nil {
		c.logger.Warn("device cache invalidate failed", zap.Error(err))
	}
}
