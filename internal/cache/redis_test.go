package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis[V any](t *testing.T, ttl time.Duration) (*Redis[V], *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRedis[V](client, "test:", "wordcount", ttl), s
}

func TestRedisGetSet(t *testing.T) {
	c, _ := setupRedis[int](t, 5*time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "5"); ok {
		t.Fatal("expected miss")
	}

	c.Set(ctx, "5", 123456)
	if v, ok := c.Get(ctx, "5"); !ok || v != 123456 {
		t.Fatalf("expected 123456, got %d (ok=%v)", v, ok)
	}
	if !c.Has(ctx, "5") {
		t.Fatal("Has should see the stored key")
	}

	c.Set(ctx, "5", 7)
	if v, ok := c.Get(ctx, "5"); !ok || v != 7 {
		t.Fatalf("expected overwrite to 7, got %d (ok=%v)", v, ok)
	}
}

func TestRedisTTLExpiry(t *testing.T) {
	c, mr := setupRedis[int](t, time.Second)
	ctx := context.Background()

	c.Set(ctx, "37", 0)
	if _, ok := c.Get(ctx, "37"); !ok {
		t.Fatal("expected hit before expiry")
	}

	mr.FastForward(2 * time.Second)

	if _, ok := c.Get(ctx, "37"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestRedisStructValues(t *testing.T) {
	type suggestions struct {
		Names []string `json:"names"`
	}
	c, _ := setupRedis[suggestions](t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "health", suggestions{Names: []string{"a", "b"}})
	got, ok := c.Get(ctx, "health")
	if !ok || len(got.Names) != 2 || got.Names[0] != "a" {
		t.Fatalf("unexpected value: %#v (ok=%v)", got, ok)
	}
}

func TestRedisFlushScopedToNamespace(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	ctx := context.Background()

	wc := NewRedis[int](client, "test:", "wordcount", time.Minute)
	sg := NewRedis[int](client, "test:", "suggestions", time.Minute)

	wc.Set(ctx, "1", 100)
	sg.Set(ctx, "health", 1)

	if err := wc.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, ok := wc.Get(ctx, "1"); ok {
		t.Fatal("wordcount namespace should be flushed")
	}
	if _, ok := sg.Get(ctx, "health"); !ok {
		t.Fatal("other namespaces must survive a flush")
	}

	n, err := wc.Stats(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Stats = %d, %v; want 0, nil", n, err)
	}
}
