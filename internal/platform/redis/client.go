// Package redis builds the Redis client used for rate limiting.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient connects to Redis and pings it. It returns nil when the server is
// unreachable so callers can run without rate limiting.
func NewClient(addr, password string, db int, logger *zap.Logger) *goredis.Client {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled",
			zap.String("addr", addr),
			zap.Error(err),
		)
		_ = client.Close()
		return nil
	}

	logger.Info("connected to redis", zap.String("addr", addr))
	return client
}
