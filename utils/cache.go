// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"dutynotify/config"

	"github.com/go-redis/redis/v8"
)

// NewAuthCacheClient connects the Redis client used for ID-token verification caching.
func NewAuthCacheClient(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis (Auth Cache): %w", err)
	}
	return client, nil
}
