package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	cache := NewCache(client)
	ctx := context.Background()

	payload := `{"usd":"1250.00","eur":"310.50"}`
	if err := cache.Set(ctx, "expected:shift-1", payload, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "expected:shift-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != payload {
		t.Fatalf("expected %s, got %s", payload, val)
	}
}

func TestCacheGetMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	cache := NewCache(client)

	_, err := cache.Get(context.Background(), "expected:absent")
	if err != redislib.Nil {
		t.Fatalf("expected redis.Nil on miss, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "expected:shift-2", "{}", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := cache.Delete(ctx, "expected:shift-2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "expected:shift-2"); err != redislib.Nil {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "expected:shift-3", "{}", 5*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(6 * time.Second)

	if _, err := cache.Get(ctx, "expected:shift-3"); err != redislib.Nil {
		t.Fatalf("expected miss after TTL, got %v", err)
	}
}
