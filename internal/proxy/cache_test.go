package proxy

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/empite/localfeeds/internal/types"
	"github.com/go-redis/redis/v8"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("redis_address")
	if addr == "" {
		t.Skip("Skipping redis test: redis_address not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	if err := rc.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping redis test: %v", err)
	}
	t.Cleanup(func() { rc.Close() })
	return rc
}

func TestRedisCacheRoundTrip(t *testing.T) {
	rc := redisClient(t)
	ctx := context.Background()
	cache := NewRedisCache(rc, time.Minute)

	radius := float64(time.Now().UnixNano()%100000 + 1)
	coords := types.Coordinates{Latitude: 6.9271, Longitude: 79.8612}
	t.Cleanup(func() { rc.Del(ctx, geoKey(radius)) })

	if _, ok, err := cache.Lookup(ctx, coords, radius); err != nil || ok {
		t.Fatalf("expected miss on empty cache, ok=%v err=%v", ok, err)
	}
	if err := cache.Store(ctx, coords, radius, []byte(upstreamOK)); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	nearby := types.Coordinates{Latitude: 6.9272, Longitude: 79.8612}
	body, ok, err := cache.Lookup(ctx, nearby, radius)
	if err != nil || !ok {
		t.Fatalf("expected hit within 50m, ok=%v err=%v", ok, err)
	}
	if string(body) != upstreamOK {
		t.Errorf("unexpected cached body %s", body)
	}

	far := types.Coordinates{Latitude: 6.95, Longitude: 79.8612}
	if _, ok, _ := cache.Lookup(ctx, far, radius); ok {
		t.Error("expected miss for a point kilometers away")
	}
}

func TestCacheKeys(t *testing.T) {
	if got := geoKey(1500); got != "places:1500" {
		t.Errorf("unexpected geo key %q", got)
	}
	if got := payloadKey("abc"); got != "places:payload:abc" {
		t.Errorf("unexpected payload key %q", got)
	}
	if NewRedisCache(nil, 0).ttl != DefaultCacheTTL {
		t.Error("expected default ttl")
	}
}
