package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultMaxSize is the capacity bound used when no option overrides it.
const DefaultMaxSize = 1000

// MemoryStore is the in-process LRU+TTL reference Store implementation.
//
// Entries live in an insertion-ordered structure where every Get and Set moves
// the key to the most-recently-used end. Expiry is lazy: an expired entry is
// removed when a Get touches it or when it is chosen for eviction. At
// capacity, eviction prefers any already-expired entry (scanning from the
// least-recently-used end) over the least-recently-used live entry, keeping
// the live working set denser without an active sweep.
//
// A maxSize of 0 is legal and degenerates to "at most one live entry": every
// Set evicts one entry before inserting, but the entry being set is never
// evicted by its own insertion. Preserved for compatibility.
//
// MemoryStore implements Store, Deleter, PrefixDeleter, and
// AttachmentTransformer, and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List // front = most recently used
	entries map[string]*list.Element

	// first-write-wins memo per attachment id, scoped to this store instance
	attachments *xsync.MapOf[string, map[string]any]

	metrics Metrics
	now     func() time.Time
}

type memoryEntry struct {
	key       string
	value     any
	expiresAt time.Time // zero => no TTL
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMaxSize bounds the number of resident entries. Negative values fall back
// to DefaultMaxSize; zero is allowed (see MemoryStore).
func WithMaxSize(n int) MemoryStoreOption {
	return func(s *MemoryStore) {
		if n >= 0 {
			s.maxSize = n
		}
	}
}

// WithMetrics attaches an observability backend.
func WithMetrics(m Metrics) MemoryStoreOption {
	return func(s *MemoryStore) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source. Intended for TTL tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates the reference in-process store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		maxSize:     DefaultMaxSize,
		order:       list.New(),
		entries:     make(map[string]*list.Element),
		attachments: xsync.NewMapOf[string, map[string]any](),
		metrics:     NoopMetrics{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live value for key, removing it first when its TTL has
// elapsed. A hit promotes the entry to most-recently-used.
func (s *MemoryStore) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		s.metrics.Miss()
		return nil, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if entry.expired(s.now()) {
		s.removeLocked(el)
		s.metrics.Evict(EvictExpired)
		s.metrics.Miss()
		return nil, false, nil
	}
	s.order.MoveToFront(el)
	s.metrics.Hit()
	return entry.value, true, nil
}

// Set stores value under key. Overwriting an existing key replaces value and
// expiry in place and does not count against capacity. A new key at capacity
// evicts exactly one entry first: the oldest expired entry if any exists,
// otherwise the least-recently-used one.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	if el, ok := s.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		s.order.MoveToFront(el)
		return nil
	}

	if s.order.Len() >= s.maxSize {
		s.evictOneLocked()
	}

	el := s.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	s.entries[key] = el
	s.metrics.Size(s.order.Len())
	return nil
}

// Delete removes key unconditionally. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[key]; ok {
		s.removeLocked(el)
	}
	return nil
}

// DeleteByPrefix removes every key that starts with prefix. O(resident keys).
func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, el := range s.entries {
		if strings.HasPrefix(key, prefix) {
			s.removeLocked(el)
		}
	}
	return nil
}

// TransformAttachment memoizes the first attachment object seen for a given
// attachment id and returns that same object on every subsequent call for the
// same id, ignoring the fields of later-seen attachments. First-write-wins per
// id for the lifetime of the store instance.
func (s *MemoryStore) TransformAttachment(_ context.Context, attachment map[string]any, _ AttachmentContext) (map[string]any, error) {
	id, ok := attachment["id"].(string)
	if !ok || id == "" {
		return attachment, nil
	}
	memoized, _ := s.attachments.LoadOrStore(id, attachment)
	return memoized, nil
}

// Len reports the number of resident entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// evictOneLocked removes exactly one entry to make room: the first expired
// entry found scanning from the least-recently-used end, or the
// least-recently-used entry when none has expired.
func (s *MemoryStore) evictOneLocked() {
	now := s.now()
	for el := s.order.Back(); el != nil; el = el.Prev() {
		if el.Value.(*memoryEntry).expired(now) {
			s.removeLocked(el)
			s.metrics.Evict(EvictExpired)
			return
		}
	}
	if el := s.order.Back(); el != nil {
		s.removeLocked(el)
		s.metrics.Evict(EvictCapacity)
	}
}

func (s *MemoryStore) removeLocked(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	s.order.Remove(el)
	delete(s.entries, entry.key)
	s.metrics.Size(s.order.Len())
}

var (
	_ Store                 = (*MemoryStore)(nil)
	_ Deleter               = (*MemoryStore)(nil)
	_ PrefixDeleter         = (*MemoryStore)(nil)
	_ AttachmentTransformer = (*MemoryStore)(nil)
)
