package cache

// EvictReason distinguishes why an entry left the store.
type EvictReason int

const (
	// EvictExpired means the entry's TTL had already elapsed when it was
	// removed, either lazily on Get or preferentially at capacity.
	EvictExpired EvictReason = iota

	// EvictCapacity means a live entry was displaced by LRU order.
	EvictCapacity
)

// Metrics receives store observability callbacks. Implementations must be
// safe for concurrent use.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing. It is
// the default when no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

var _ Metrics = NoopMetrics{}
