package database

import (
	"context"
	"time"

	"venue_manager/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is nil when no server is reachable; callers treat that as "cache disabled".
var Redis *redis.Client

func ConnectRedis(addr string) {
	if addr == "" {
		addr = config.Config("REDIS_ADDR")
	}
	if addr == "" {
		zap.S().Warn("REDIS_ADDR not set, cache and live board disabled")
		return
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.S().Warnf("Redis unavailable at %s: %v", addr, err)
		_ = client.Close()
		return
	}
	Redis = client
	zap.S().Infof("Connected to Redis at %s", addr)
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
