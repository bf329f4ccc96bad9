package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

type countingMetrics struct {
	hits, misses int
	evicts       map[EvictReason]int
	size         int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{evicts: make(map[EvictReason]int)}
}

func (m *countingMetrics) Hit()                { m.hits++ }
func (m *countingMetrics) Miss()               { m.misses++ }
func (m *countingMetrics) Evict(r EvictReason) { m.evicts[r]++ }
func (m *countingMetrics) Size(n int)          { m.size = n }

func mustSet(t *testing.T, s *MemoryStore, key string, value any, ttl time.Duration) {
	t.Helper()
	if err := s.Set(context.Background(), key, value, ttl); err != nil {
		t.Fatalf("Set(%q) error: %v", key, err)
	}
}

func mustGet(t *testing.T, s *MemoryStore, key string) (any, bool) {
	t.Helper()
	value, ok, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", key, err)
	}
	return value, ok
}

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := mustGet(t, s, "absent"); ok {
		t.Error("Get(absent) should miss")
	}

	mustSet(t, s, "k", "v", 0)
	value, ok := mustGet(t, s, "k")
	if !ok || value != "v" {
		t.Errorf("Get(k) = (%v, %v), want (v, true)", value, ok)
	}
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	mustSet(t, s, "k", "v", time.Second)

	if _, ok := mustGet(t, s, "k"); !ok {
		t.Fatal("entry should be live before expiry")
	}

	clock.Advance(2 * time.Second)

	if _, ok := mustGet(t, s, "k"); ok {
		t.Error("entry should be gone after TTL elapses")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", s.Len())
	}
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	mustSet(t, s, "k", "v", 0)
	clock.Advance(1000 * time.Hour)

	if _, ok := mustGet(t, s, "k"); !ok {
		t.Error("entry without TTL must not expire")
	}
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	s := NewMemoryStore(WithMaxSize(2))

	mustSet(t, s, "a", 1, 0)
	mustSet(t, s, "b", 2, 0)

	// Touch a so b becomes least recently used.
	mustGet(t, s, "a")

	mustSet(t, s, "c", 3, 0)

	if _, ok := mustGet(t, s, "b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	if _, ok := mustGet(t, s, "a"); !ok {
		t.Error("a should survive, it was touched last")
	}
	if _, ok := mustGet(t, s, "c"); !ok {
		t.Error("c was just inserted and should be present")
	}
}

func TestMemoryStore_ExpiredEvictedBeforeLive(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithMaxSize(2), WithClock(clock.Now))

	mustSet(t, s, "a", 1, time.Second) // expires
	mustSet(t, s, "b", 2, 0)           // lives forever

	// Make a most recently used so plain LRU would pick b.
	mustGet(t, s, "a")

	clock.Advance(2 * time.Second)
	mustSet(t, s, "c", 3, 0)

	if _, ok := mustGet(t, s, "a"); ok {
		t.Error("expired a should have been evicted first")
	}
	if _, ok := mustGet(t, s, "b"); !ok {
		t.Error("live b must survive even as the LRU entry")
	}
	if _, ok := mustGet(t, s, "c"); !ok {
		t.Error("c was just inserted and should be present")
	}
}

func TestMemoryStore_OverwriteDoesNotEvict(t *testing.T) {
	s := NewMemoryStore(WithMaxSize(2))

	mustSet(t, s, "a", 1, 0)
	mustSet(t, s, "b", 2, 0)
	mustSet(t, s, "a", 10, 0)

	if s.Len() != 2 {
		t.Errorf("Len() = %d after overwrite at capacity, want 2", s.Len())
	}
	if value, _ := mustGet(t, s, "a"); value != 10 {
		t.Errorf("Get(a) = %v after overwrite, want 10", value)
	}
	if _, ok := mustGet(t, s, "b"); !ok {
		t.Error("overwrite must not evict b")
	}
}

func TestMemoryStore_ZeroMaxSize(t *testing.T) {
	s := NewMemoryStore(WithMaxSize(0))

	mustSet(t, s, "a", 1, 0)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d after first insert, want 1", s.Len())
	}
	if _, ok := mustGet(t, s, "a"); !ok {
		t.Error("a should be readable right after its own insertion")
	}

	mustSet(t, s, "b", 2, 0)
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1: each insert evicts the previous entry", s.Len())
	}
	if _, ok := mustGet(t, s, "a"); ok {
		t.Error("a should have been evicted by b's insertion")
	}
	if _, ok := mustGet(t, s, "b"); !ok {
		t.Error("b should be present")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()

	mustSet(t, s, "k", "v", 0)
	if err := s.Delete(context.Background(), "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok := mustGet(t, s, "k"); ok {
		t.Error("k should be gone after Delete")
	}

	// Deleting an absent key is not an error.
	if err := s.Delete(context.Background(), "absent"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	s := NewMemoryStore()

	mustSet(t, s, "list::app::tbl::a", 1, 0)
	mustSet(t, s, "list::app::tbl::b", 2, 0)
	mustSet(t, s, "get::app::tbl::rec::c", 3, 0)

	if err := s.DeleteByPrefix(context.Background(), "list::app::tbl::"); err != nil {
		t.Fatalf("DeleteByPrefix() error: %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if _, ok := mustGet(t, s, "get::app::tbl::rec::c"); !ok {
		t.Error("non-matching key must survive prefix deletion")
	}
}

func TestMemoryStore_TransformAttachment(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	actx := AttachmentContext{BaseID: "app", Table: "tbl", RecordID: "rec", Field: "Files"}

	first := map[string]any{"id": "att1", "url": "https://example.com/v1"}
	got, err := s.TransformAttachment(ctx, first, actx)
	if err != nil {
		t.Fatalf("TransformAttachment() error: %v", err)
	}
	if got["url"] != "https://example.com/v1" {
		t.Errorf("first call should return the attachment as given, got %v", got)
	}

	// A later attachment with the same id yields the memoized first object.
	second := map[string]any{"id": "att1", "url": "https://example.com/v2"}
	got, err = s.TransformAttachment(ctx, second, actx)
	if err != nil {
		t.Fatalf("TransformAttachment() error: %v", err)
	}
	if got["url"] != "https://example.com/v1" {
		t.Errorf("second call should return the memoized object, got %v", got)
	}

	// Attachments without an id pass through untouched.
	plain := map[string]any{"url": "https://example.com/anon"}
	got, err = s.TransformAttachment(ctx, plain, actx)
	if err != nil {
		t.Fatalf("TransformAttachment() error: %v", err)
	}
	if got["url"] != "https://example.com/anon" {
		t.Errorf("id-less attachment should pass through, got %v", got)
	}
}

func TestMemoryStore_Metrics(t *testing.T) {
	clock := newFakeClock()
	m := newCountingMetrics()
	s := NewMemoryStore(WithMaxSize(1), WithClock(clock.Now), WithMetrics(m))

	mustGet(t, s, "absent") // miss
	mustSet(t, s, "a", 1, time.Second)
	mustGet(t, s, "a") // hit

	mustSet(t, s, "b", 2, 0) // a is still live, so this is a capacity eviction
	if m.evicts[EvictCapacity] != 1 {
		t.Errorf("capacity evicts = %d, want 1", m.evicts[EvictCapacity])
	}

	mustSet(t, s, "c", 3, time.Second)
	clock.Advance(2 * time.Second)
	mustGet(t, s, "c") // lazy expiry counts as expired eviction plus a miss

	if m.evicts[EvictExpired] != 1 {
		t.Errorf("expired evicts = %d, want 1", m.evicts[EvictExpired])
	}
	if m.hits != 1 {
		t.Errorf("hits = %d, want 1", m.hits)
	}
	if m.misses != 2 {
		t.Errorf("misses = %d, want 2", m.misses)
	}
	if m.size != 0 {
		t.Errorf("size gauge = %d, want 0", m.size)
	}
}
