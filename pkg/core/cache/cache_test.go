package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](DefaultConfig())
	defer c.Close()

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v", hits, misses, rate)
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := New[int](Config{MaxItems: 2})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // b is now least recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New[int](Config{MaxItems: 10, TTL: time.Millisecond})
	defer c.Close()

	c.Set("a", 1)
	c.SetWithTTL("b", 2, 0)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b without TTL should not expire")
	}
}

func TestCache_Cleanup(t *testing.T) {
	c := New[int](Config{MaxItems: 10, TTL: time.Millisecond})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)
	c.cleanup()

	if c.Size() != 0 {
		t.Errorf("Size() after cleanup = %d, want 0", c.Size())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[string](DefaultConfig())
	defer c.Close()

	calls := 0
	fn := func() (string, error) {
		calls++
		return "v", nil
	}

	c.GetOrSet("k", fn)
	v, _ := c.GetOrSet("k", fn)
	if v != "v" || calls != 1 {
		t.Errorf("GetOrSet() = %q after %d calls, want v after 1", v, calls)
	}

	_, err := c.GetOrSet("bad", func() (string, error) { return "", errors.New("boom") })
	if err == nil {
		t.Error("GetOrSet() should return the error")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed computation should not be cached")
	}
}

func TestCache_DeleteClear(t *testing.T) {
	c := New[int](DefaultConfig())
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d", c.Size())
	}
	c.Close()
	c.Close() // idempotent
}

func TestKey(t *testing.T) {
	if Key("eval", "1") == Key("eval1") {
		t.Error("Key should separate parts")
	}
	if Key("eval", "1") != Key("eval", "1") {
		t.Error("Key should be deterministic")
	}
	if len(Key("x")) != 32 {
		t.Errorf("len(Key) = %d, want 32", len(Key("x")))
	}
}
