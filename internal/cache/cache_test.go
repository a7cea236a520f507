package cache

import (
	"sync"
	"testing"
)

func TestCache_GetOrCreate(t *testing.T) {
	c := New[int, string](2)
	calls := 0
	create := func(v string) func() string {
		return func() string { calls++; return v }
	}

	if got := c.GetOrCreate(1, create("a")); got != "a" {
		t.Errorf("GetOrCreate(1) = %q, want a", got)
	}
	if got := c.GetOrCreate(1, create("b")); got != "a" {
		t.Errorf("GetOrCreate(1) again = %q, want cached a", got)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Len != 1 || s.Limit != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](2)
	var evicted []int
	c.OnEvict(func(k, _ int) { evicted = append(evicted, k) })

	c.GetOrCreate(1, func() int { return 1 })
	c.GetOrCreate(2, func() int { return 2 })
	c.Get(1) // 2 is now the oldest
	c.GetOrCreate(3, func() int { return 3 })

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(2); ok {
		t.Error("key 2 should have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("key 1 should still be cached")
	}
	if len(evicted) != 1 || evicted[0] != 2 {
		t.Errorf("evicted = %v, want [2]", evicted)
	}
}

func TestCache_Unlimited(t *testing.T) {
	c := New[int, int](0)
	for i := range 100 {
		c.GetOrCreate(i, func() int { return i })
	}
	if c.Len() != 100 {
		t.Errorf("Len() = %d, want 100", c.Len())
	}
}

func TestCache_ClearRunsCallback(t *testing.T) {
	c := New[string, int](4)
	n := 0
	c.OnEvict(func(string, int) { n++ })
	c.GetOrCreate("a", func() int { return 1 })
	c.GetOrCreate("b", func() int { return 2 })
	c.Clear()
	if n != 2 || c.Len() != 0 {
		t.Errorf("after Clear: callbacks=%d Len=%d", n, c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](8)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				k := (g + i) % 16
				if v := c.GetOrCreate(k, func() int { return k * 2 }); v != k*2 {
					t.Errorf("GetOrCreate(%d) = %d", k, v)
					return
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() > 8 {
		t.Errorf("Len() = %d, want <= 8", c.Len())
	}
}
