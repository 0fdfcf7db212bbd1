package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"dutynotify/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TokenCache stores verified token hashes mapped to user IDs.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, uid string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by TokenCache.Get for unknown keys.
var ErrCacheMiss = errors.New("token cache miss")

// RedisTokenCache implements TokenCache on a dedicated Redis DB.
type RedisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, error) {
	uid, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return uid, err
}

func (c *RedisTokenCache) Set(ctx context.Context, key, uid string, ttl time.Duration) error {
	return c.client.Set(ctx, key, uid, ttl).Err()
}

func (c *RedisTokenCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// CachingVerifier verifies Firebase ID tokens and caches the result until the
// token expires or ttl elapses, whichever comes first.
type CachingVerifier struct {
	client AuthClient
	cache  TokenCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewCachingVerifier(client AuthClient, cache TokenCache, ttl time.Duration, logger *zap.Logger) *CachingVerifier {
	return &CachingVerifier{client: client, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// CacheKey is the cache key for a raw ID token.
func CacheKey(idToken string) string {
	sum := sha256.Sum256([]byte(idToken))
	return utils.IDTokenCachePrefix + hex.EncodeToString(sum[:])
}

func (v *CachingVerifier) VerifyToken(ctx context.Context, idToken string) (string, error) {
	key := CacheKey(idToken)

	if v.cache != nil {
		uid, err := v.cache.Get(ctx, key)
		if err == nil && uid != "" {
			return uid, nil
		}
		if err != nil && !errors.Is(err, ErrCacheMiss) {
			v.logger.Warn("token cache unavailable", zap.Error(err))
		}
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("invalid ID token: %w", err)
	}

	if v.cache != nil {
		ttl := v.ttl
		if remaining := time.Unix(token.Expires, 0).Sub(v.now()); remaining < ttl {
			ttl = remaining
		}
		if ttl > 0 {
			if err := v.cache.Set(ctx, key, token.UID, ttl); err != nil {
				v.logger.Warn("failed to cache verified token", zap.Error(err))
			}
		}
	}
	return token.UID, nil
}

// Forget drops a cached token, used once the identity behind it is deleted.
func (v *CachingVerifier) Forget(ctx context.Context, idToken string) {
	if v.cache == nil {
		return
	}
	if err := v.cache.Del(ctx, CacheKey(idToken)); err != nil {
		v.logger.Warn("failed to drop cached token", zap.Error(err))
	}
}
