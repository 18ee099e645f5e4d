package proxy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	t "github.com/empite/localfeeds/internal/types"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	DefaultCacheTTL    = 10 * time.Minute
	defaultCacheRadius = 50
)

// Cache holds upstream nearby-search payloads for short reuse.
type Cache interface {
	Lookup(ctx context.Context, coords t.Coordinates, radius float64) ([]byte, bool, error)
	Store(ctx context.Context, coords t.Coordinates, radius float64, body []byte) error
}

// RedisCache indexes payloads in one geo set per search radius. A lookup
// returns the closest payload stored within 50 meters.
type RedisCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedisCache(rc *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{rc: rc, ttl: ttl}
}

func (c *RedisCache) Lookup(ctx context.Context, coords t.Coordinates, radius float64) ([]byte, bool, error) {
	key := geoKey(radius)
	locations, err := c.rc.GeoRadius(ctx, key, coords.Longitude, coords.Latitude,
		&redis.GeoRadiusQuery{
			Radius:   defaultCacheRadius,
			Unit:     "m",
			WithDist: true,
			Count:    1,
			Sort:     "ASC",
		}).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis georadius on %s: %w", key, err)
	}
	if len(locations) == 0 {
		return nil, false, nil
	}

	id := locations[0].Name
	body, err := c.rc.Get(ctx, payloadKey(id)).Bytes()
	if err == redis.Nil {
		// payload expired before its geo entry
		c.rc.ZRem(ctx, key, id)
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", payloadKey(id), err)
	}
	return body, true, nil
}

func (c *RedisCache) Store(ctx context.Context, coords t.Coordinates, radius float64, body []byte) error {
	id := uuid.NewString()
	key := geoKey(radius)

	_, err := c.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, payloadKey(id), body, c.ttl)
		pipe.GeoAdd(ctx, key, &redis.GeoLocation{
			Name:      id,
			Longitude: coords.Longitude,
			Latitude:  coords.Latitude,
		})
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store on %s: %w", key, err)
	}
	return nil
}

func geoKey(radius float64) string {
	return "places:" + strconv.FormatFloat(radius, 'f', -1, 64)
}

func payloadKey(id string) string {
	return "places:payload:" + id
}
