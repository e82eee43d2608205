// Package cache keeps the agency reminder settings in Redis so repeated CLI
// runs do not hit the backend for a value that rarely changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/services"
)

// SettingsKey is the Redis key holding the cached agency settings.
const SettingsKey = "crm:settings:relance"

// DefaultTTL applies when no positive TTL is configured.
const DefaultTTL = 10 * time.Minute

// RedisConfig holds the connection settings of the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	const op = "NewRedisClient"

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%s: redis address is empty", op)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: redis connection failed: %w", op, err)
	}

	return client, nil
}

// SettingsCache is a services.Source whose Settings reads go through Redis.
// Every other read is delegated to the wrapped source untouched.
type SettingsCache struct {
	services.Source
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSettingsCache wraps src. A nil client disables caching.
func NewSettingsCache(src services.Source, client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SettingsCache{
		Source: src,
		client: client,
		ttl:    ttl,
		log:    logger.WithComponent("settings-cache"),
	}
}

// Settings returns the cached agency settings, loading and storing them on a
// miss. Redis failures are logged and the wrapped source is used instead.
func (c *SettingsCache) Settings(ctx context.Context) (models.AgencySettings, error) {
	const op = "Settings"

	if c.client == nil {
		return c.Source.Settings(ctx)
	}

	raw, err := c.client.Get(ctx, SettingsKey).Bytes()
	switch {
	case err == nil:
		var settings models.AgencySettings
		if err := json.Unmarshal(raw, &settings); err != nil {
			c.log.Warn().Err(err).Str("key", SettingsKey).Msg("Discarding unreadable cached settings")
			break
		}
		c.log.Debug().Str("key", SettingsKey).Msg("Settings cache hit")
		return settings, nil
	case errors.Is(err, redis.Nil):
		c.log.Debug().Str("key", SettingsKey).Msg("Settings cache miss")
	default:
		c.log.Warn().Err(err).Msg("Settings cache unavailable, reading from source")
	}

	settings, err := c.Source.Settings(ctx)
	if err != nil {
		return models.AgencySettings{}, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode settings for cache")
		return settings, nil
	}
	if err := c.client.Set(ctx, SettingsKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to store settings in cache")
	}

	return settings, nil
}

// Invalidate drops the cached settings.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, SettingsKey).Err(); err != nil {
		return fmt.Errorf("Invalidate: %w", err)
	}
	return nil
}
