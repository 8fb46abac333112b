package helper

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"venue_manager/database"
	"venue_manager/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	CacheInvalidationChannel = "cache:invalidate"
	cacheKeyPrefix           = "cache:"
)

const (
	TagDashboard       = "dashboard"
	TagTables          = "tables"
	TagBookings        = "bookings"
	TagPrivateBookings = "private_bookings"
	TagInvoices        = "invoices"
	TagQuotes          = "quotes"
	TagLoyalty         = "loyalty"
	TagCustomers       = "customers"
	TagVendors         = "vendors"
	TagCalendar        = "calendar"
	TagMessages        = "messages"
)

func CacheKey(tag string, parts ...string) string {
	return cacheKeyPrefix + tag + ":" + strings.Join(parts, ":")
}

// GetCached decodes a cached JSON value into dst and reports whether it was found.
func GetCached(ctx context.Context, key string, dst any) bool {
	if database.Redis == nil {
		return false
	}
	raw, err := database.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.S().Warnf("cache get %s: %v", key, err)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func SetCached(ctx context.Context, key string, value any, ttl time.Duration) {
	if database.Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := database.Redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		zap.S().Warnf("cache set %s: %v", key, err)
	}
}

// InvalidateCache drops every key under the given tags and announces the
// invalidation so other instances and live views can refresh.
func InvalidateCache(ctx context.Context, tags ...string) {
	if database.Redis == nil || len(tags) == 0 {
		return
	}
	for _, tag := range tags {
		iter := database.Redis.Scan(ctx, 0, cacheKeyPrefix+tag+":*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			zap.S().Warnf("cache scan %s: %v", tag, err)
			continue
		}
		if len(keys) > 0 {
			if err := database.Redis.Del(ctx, keys...).Err(); err != nil {
				zap.S().Warnf("cache delete %s: %v", tag, err)
			}
		}
		if err := database.Redis.Publish(ctx, CacheInvalidationChannel, tag).Err(); err != nil {
			zap.S().Warnf("cache publish %s: %v", tag, err)
		}
	}
}

// PublishBoard pushes a change notice to the live booking board for a service date.
func PublishBoard(ctx context.Context, date time.Time, payload any) {
	if database.Redis == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := database.Redis.Publish(ctx, BoardChannel(date), raw).Err(); err != nil {
		zap.S().Warnf("board publish: %v", err)
	}
}

func BoardChannel(date time.Time) string {
	return "bookings:" + date.Format(time.DateOnly)
}
