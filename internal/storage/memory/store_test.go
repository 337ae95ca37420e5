package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ============================================================
// Basic operations
// ============================================================

func TestStore_SetGet(t *testing.T) {
	s := New()

	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get on empty store should miss")
	}

	s.Set("k", "v1", time.Time{})
	if v, ok := s.Get("k"); !ok || v != "v1" {
		t.Fatalf("Get = %q, %v; want v1, true", v, ok)
	}

	s.Set("k", "v2", time.Time{})
	if v, _ := s.Get("k"); v != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", v)
	}
}

func TestStore_EmptyKeyAndValue(t *testing.T) {
	s := New()
	s.Set("", "", time.Time{})

	v, ok := s.Get("")
	if !ok || v != "" {
		t.Errorf("Get(\"\") = %q, %v; want \"\", true", v, ok)
	}
}

func TestStore_Delete(t *testing.T) {
	s := New()
	s.Set("k", "v", time.Time{})

	if !s.Delete("k") {
		t.Fatal("Delete should report the key existed")
	}
	if s.Delete("k") {
		t.Error("second Delete should report false")
	}
	if s.Exists("k") {
		t.Error("key should be gone")
	}
}

func TestStore_KeysAndLen(t *testing.T) {
	s := New()
	for _, k := range []string{"b", "a", "c"} {
		s.Set(k, k, time.Time{})
	}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	keys := s.Keys()
	if fmt.Sprint(keys) != "[a b c]" {
		t.Errorf("Keys() = %v", keys)
	}
}

// ============================================================
// Expiry
// ============================================================

func TestStore_LazyExpiry(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "v", clock.Now().Add(100*time.Millisecond))

	clock.Advance(50 * time.Millisecond)
	if _, ok := s.Get("k"); !ok {
		t.Fatal("key should still be live")
	}

	clock.Advance(100 * time.Millisecond)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 once expired", s.Len())
	}
	if s.ExpiredCount() != 0 {
		t.Error("Len should not evict")
	}

	if _, ok := s.Get("k"); ok {
		t.Fatal("key should be expired")
	}
	if s.ExpiredCount() != 1 {
		t.Errorf("ExpiredCount() = %d, want 1", s.ExpiredCount())
	}

	// Evicted entry is gone from both maps.
	if _, ok := s.expiry["k"]; ok {
		t.Error("expiry entry should be removed with the value")
	}
}

func TestStore_ExpiryIsStrict(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "v", clock.Now().Add(time.Second))
	clock.Advance(time.Second)

	if _, ok := s.Get("k"); !ok {
		t.Error("key expiring exactly now should still be readable")
	}
	clock.Advance(time.Nanosecond)
	if _, ok := s.Get("k"); ok {
		t.Error("key should be expired one tick later")
	}
}

func TestStore_PlainSetClearsExpiry(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "v1", clock.Now().Add(time.Second))
	s.Set("k", "v2", time.Time{})

	clock.Advance(time.Hour)
	v, ok := s.Get("k")
	if !ok || v != "v2" {
		t.Fatalf("Get = %q, %v; want v2, true", v, ok)
	}
	if ttl, _ := s.TTL("k"); ttl != NoExpiry {
		t.Errorf("TTL = %v, want NoExpiry", ttl)
	}
}

func TestStore_TTL(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	if _, ok := s.TTL("missing"); ok {
		t.Error("TTL of missing key should report not found")
	}

	s.Set("k", "v", clock.Now().Add(10*time.Second))
	clock.Advance(4 * time.Second)

	ttl, ok := s.TTL("k")
	if !ok || ttl != 6*time.Second {
		t.Errorf("TTL = %v, %v; want 6s, true", ttl, ok)
	}
}

func TestStore_ExpiredKeyCanBeRewritten(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "old", clock.Now().Add(time.Millisecond))
	clock.Advance(time.Second)

	err := s.Update(func(tx *Tx) error {
		if tx.Exists("k") {
			t.Error("expired key should not exist inside Update")
		}
		tx.Set("k", "new", time.Time{})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v, _ := s.Get("k"); v != "new" {
		t.Errorf("Get = %q, want new", v)
	}
}

// ============================================================
// Update
// ============================================================

func TestStore_UpdateReturnsCallbackError(t *testing.T) {
	s := New()
	want := errors.New("abort")

	got := s.Update(func(tx *Tx) error {
		return want
	})
	if !errors.Is(got, want) {
		t.Errorf("Update() = %v, want %v", got, want)
	}
}

func TestStore_UpdateIsAtomic(t *testing.T) {
	s := New()
	const workers = 32

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = s.Update(func(tx *Tx) error {
				if tx.Exists("lock") {
					return nil
				}
				tx.Set("lock", fmt.Sprint(id), time.Time{})
				mu.Lock()
				winners++
				mu.Unlock()
				return nil
			})
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestStore_ConcurrentSetsAllLand(t *testing.T) {
	s := New()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			s.Set(key, key, time.Time{})
		}(i)
	}
	wg.Wait()

	if s.Len() != n {
		t.Errorf("Len() = %d, want %d", s.Len(), n)
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		if v, ok := s.Get(key); !ok || v != key {
			t.Errorf("Get(%s) = %q, %v", key, v, ok)
		}
	}
}
