package cache

import (
	"sync"
	"testing"
	"time"
)

func TestTTLCacheGetSetDelete(t *testing.T) {
	c := NewTTLCache[string](time.Minute, 0)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d", c.Size())
	}
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache[int](20*time.Millisecond, 0)
	c.Set("k", 1)
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if remaining := c.CleanExpired(); remaining != 0 {
		t.Fatalf("expected no remaining entries, got %d", remaining)
	}
}

func TestTTLCacheGetOrCreateSharesValue(t *testing.T) {
	c := NewTTLCache[*int](time.Minute, 0)

	const n = 16
	results := make([]*int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrCreate("k", func() *int { v := i; return &v })
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different value", i)
		}
	}
	if c.Size() != 1 {
		t.Fatalf("expected one entry, got %d", c.Size())
	}
}

func TestTTLCacheFlush(t *testing.T) {
	c := NewTTLCache[int](time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()
	if c.Size() != 0 {
		t.Fatalf("expected empty cache")
	}
}
