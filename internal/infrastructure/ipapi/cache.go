package ipapi

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/suggestion"
	"github.com/oksasatya/etherescape/pkg/helpers"
)

func cacheKey(ip string) string {
	return "geo:ip:" + ip
}

// CachedResolver keeps successful lookups in Redis for TTL. Failures are
// never cached.
type CachedResolver struct {
	Next   suggestion.GeoResolver
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewCachedResolver(next suggestion.GeoResolver, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedResolver {
	return &CachedResolver{Next: next, Redis: rdb, TTL: ttl, Logger: logger}
}

func (c *CachedResolver) Resolve(ctx context.Context, ip string) (entity.GeoLocation, error) {
	// reject unusable input before touching redis
	if _, err := suggestion.PrepareIP(ip, ""); err != nil {
		return entity.GeoLocation{}, err
	}
	if c.Redis == nil || c.TTL <= 0 {
		return c.Next.Resolve(ctx, ip)
	}

	key := cacheKey(strings.TrimSpace(ip))
	var cached entity.GeoLocation
	found, err := helpers.RedisGetJSON(ctx, c.Redis, key, &cached)
	if err != nil && c.Logger != nil {
		c.Logger.WithError(err).WithField("key", key).Warn("geo cache read failed")
	}
	if found {
		return cached, nil
	}

	loc, err := c.Next.Resolve(ctx, ip)
	if err != nil {
		return loc, err
	}
	if sErr := helpers.RedisSetJSON(ctx, c.Redis, key, loc, c.TTL); sErr != nil && c.Logger != nil {
		c.Logger.WithError(sErr).WithField("key", key).Warn("geo cache write failed")
	}
	return loc, nil
}

var _ suggestion.GeoResolver = (*CachedResolver)(nil)
