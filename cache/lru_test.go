package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUPutGet(t *testing.T) {
	ctx := context.Background()
	c := NewLRU[string, int](0, 0)

	c.Put(ctx, "a", 1)
	c.Put(ctx, "b", 2)

	if v, ok := c.Get(ctx, "a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}
	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("Get(missing) should miss")
	}
	if got := c.Size(ctx); got != 2 {
		t.Fatalf("Size = %d, want 2", got)
	}
}

func TestLRUOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewLRU[string, int](0, 0)

	c.Put(ctx, "a", 1)
	c.Put(ctx, "a", 9)

	if v, _ := c.Get(ctx, "a"); v != 9 {
		t.Fatalf("Get(a) = %d, want 9", v)
	}
	if got := c.Size(ctx); got != 1 {
		t.Fatalf("Size = %d, want 1", got)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLRU[string, int](2, 0)

	c.Put(ctx, "a", 1)
	c.Put(ctx, "b", 2)
	c.Get(ctx, "a") // promote a, b becomes the eviction candidate
	c.Put(ctx, "c", 3)

	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("a should have survived")
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Fatal("c should have survived")
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewLRU[string, int](0, 10*time.Millisecond)

	c.Put(ctx, "a", 1)
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("entry should be live before the TTL")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("entry should have expired")
	}
	if got := c.Size(ctx); got != 0 {
		t.Fatalf("Size = %d, want 0", got)
	}
}

func TestLRURemoveAndClear(t *testing.T) {
	ctx := context.Background()
	c := NewLRU[string, int](0, 0)

	c.Put(ctx, "a", 1)
	c.Put(ctx, "b", 2)
	c.Remove(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("a should be gone after Remove")
	}

	c.Clear(ctx)
	if got := c.Size(ctx); got != 0 {
		t.Fatalf("Size after Clear = %d, want 0", got)
	}
	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("b should be gone after Clear")
	}
}

func TestLRUKeysValues(t *testing.T) {
	ctx := context.Background()
	c := NewLRU[string, int](0, 0)

	c.Put(ctx, "a", 1)
	c.Put(ctx, "b", 2)

	keys := c.Keys(ctx)
	values := c.Values(ctx)
	if len(keys) != 2 || len(values) != 2 {
		t.Fatalf("Keys/Values = %v / %v", keys, values)
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("Keys = %v, want a and b", keys)
	}
}
