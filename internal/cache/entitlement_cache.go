package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/rules"
)

const entitlementKeyPrefix = "entitlement:"

// EntitlementCache хранит разрешенный план пользователя в redis.
// Промах кеша - не ошибка: Get возвращает (nil, nil).
type EntitlementCache interface {
	Get(ctx context.Context, userID string) (*rules.Entitlement, error)
	Set(ctx context.Context, userID string, e rules.Entitlement) error
	Invalidate(ctx context.Context, userID string) error
}

type redisEntitlementCache struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewEntitlementCache возвращает кеш поверх redis. С nil-клиентом
// все операции становятся no-op.
func NewEntitlementCache(rc *redis.Client, ttl time.Duration) EntitlementCache {
	return &redisEntitlementCache{rc: rc, ttl: ttl}
}

func entitlementKey(userID string) string {
	return entitlementKeyPrefix + userID
}

func (c *redisEntitlementCache) Get(ctx context.Context, userID string) (*rules.Entitlement, error) {
	if c.rc == nil {
		return nil, nil
	}

	result, err := c.rc.Get(ctx, entitlementKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entitlement cache: %w", err)
	}

	var e rules.Entitlement
	if err := json.Unmarshal([]byte(result), &e); err != nil {
		// битую запись удаляем, источник правды - БД
		logger.Warn("dropping malformed entitlement cache entry", "user_id", userID, "error", err.Error())
		_ = c.rc.Del(ctx, entitlementKey(userID)).Err()
		return nil, nil
	}
	return &e, nil
}

func (c *redisEntitlementCache) Set(ctx context.Context, userID string, e rules.Entitlement) error {
	if c.rc == nil {
		return nil
	}

	bytes, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entitlement: %w", err)
	}

	if err := c.rc.Set(ctx, entitlementKey(userID), bytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set entitlement cache: %w", err)
	}
	return nil
}

func (c *redisEntitlementCache) Invalidate(ctx context.Context, userID string) error {
	if c.rc == nil {
		return nil
	}
	if err := c.rc.Del(ctx, entitlementKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate entitlement cache: %w", err)
	}
	return nil
}
