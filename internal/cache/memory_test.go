package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](5*time.Minute, 0)
	defer c.Close()

	// Miss
	if _, ok := c.Get(ctx, "title:1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	// Set and hit
	c.Set(ctx, "title:1", 84000)
	if v, ok := c.Get(ctx, "title:1"); !ok || v != 84000 {
		t.Fatalf("expected 84000, got %d (ok=%v)", v, ok)
	}

	// Overwrite resets the value
	c.Set(ctx, "title:1", 91000)
	if v, ok := c.Get(ctx, "title:1"); !ok || v != 91000 {
		t.Fatalf("expected 91000, got %d (ok=%v)", v, ok)
	}

	if !c.Has(ctx, "title:1") {
		t.Fatal("Has should report the stored key")
	}
	if c.Has(ctx, "title:2") {
		t.Fatal("Has should reject an absent key")
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](30*time.Millisecond, 0)
	defer c.Close()

	c.Set(ctx, "q", "suggestions")
	if _, ok := c.Get(ctx, "q"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get(ctx, "q"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
	// Expired read must also have removed the entry.
	if n, _ := c.Stats(ctx); n != 0 {
		t.Fatalf("expected 0 live entries, got %d", n)
	}
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](0, 0)
	defer c.Close()

	c.Set(ctx, "k", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("zero-TTL entry should not expire")
	}
}

func TestMemoryFlush(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](time.Minute, 0)
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("expected miss after flush")
	}
	if n, _ := c.Stats(ctx); n != 0 {
		t.Fatalf("expected empty cache, got %d entries", n)
	}
}

func TestMemoryMaxEntriesEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](0, 2)
	defer c.Close()

	c.Set(ctx, "first", 1)
	time.Sleep(5 * time.Millisecond)
	c.Set(ctx, "second", 2)
	time.Sleep(5 * time.Millisecond)
	c.Set(ctx, "third", 3)

	if n, _ := c.Stats(ctx); n != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", n)
	}
	if _, ok := c.Get(ctx, "first"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	if _, ok := c.Get(ctx, "third"); !ok {
		t.Fatal("newest entry must survive")
	}
}

func TestMemoryStructValues(t *testing.T) {
	type entry struct {
		Names []string
	}
	ctx := context.Background()
	c := NewMemory[entry](time.Minute, 0)
	defer c.Close()

	c.Set(ctx, "health", entry{Names: []string{"Department of Health and Human Services"}})
	got, ok := c.Get(ctx, "health")
	if !ok || len(got.Names) != 1 {
		t.Fatalf("unexpected entry: %#v (ok=%v)", got, ok)
	}
}
