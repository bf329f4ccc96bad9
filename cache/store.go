package cache

import (
	"context"
	"time"
)

// Store is the minimal capability a cache backend must provide. Implementations
// must be safe for concurrent use; one Store instance may be shared by many
// clients, tables, and bases, since keys are namespaced by base and table.
type Store interface {
	// Get returns the value for key, or ok=false when the key is absent or
	// expired. Network-backed stores may return the stored bytes rather than
	// the original value; the read-through layer re-decodes those.
	Get(ctx context.Context, key string) (value any, ok bool, err error)

	// Set stores value under key. A zero ttl means the entry does not expire.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Deleter is an optional Store capability. Absence disables single-key
// invalidation; it is not an error.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// PrefixDeleter is an optional Store capability: remove every key that starts
// with prefix. Absence disables bulk invalidation after mutations, degrading
// the cache to TTL-based eventual consistency.
type PrefixDeleter interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// AttachmentContext identifies where an attachment-shaped value was found
// while preparing a record for caching.
type AttachmentContext struct {
	BaseID   string
	Table    string
	RecordID string
	Field    string
}

// AttachmentTransformer is an optional Store capability invoked once per
// attachment-shaped value discovered in record fields before the record is
// written through. Implementations are expected to memoize by the attachment's
// id so repeated transforms of the same id are idempotent and cheap.
type AttachmentTransformer interface {
	TransformAttachment(ctx context.Context, attachment map[string]any, actx AttachmentContext) (map[string]any, error)
}

// Op names the store operation involved in a cache failure.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpDelete Op = "delete"
)

// ErrorContext describes a failed cache operation for the OnError observer.
// Key is set for get/set failures, Prefix for bulk deletions.
type ErrorContext struct {
	Op     Op
	Key    string
	Prefix string
}

// Config is the caching configuration bag accepted by clients. A nil Config or
// nil Store disables caching entirely.
type Config struct {
	// Store holds cached read results. Required for caching to be active.
	Store Store

	// DefaultTTL is applied to every write-through Set. Zero means entries
	// never expire (or use the store's own default).
	DefaultTTL time.Duration

	// DisableList and DisableGet turn off caching per operation. The default
	// is enabled whenever a Store is configured.
	DisableList bool
	DisableGet  bool

	// OnError observes every cache-layer failure together with the operation
	// and key or prefix involved. It runs before the swallow/re-raise decision.
	OnError func(err error, ectx ErrorContext)

	// FailOnCacheError re-raises cache failures to the original caller.
	// The default posture is best-effort: a cache failure never breaks a
	// successful transport round-trip.
	FailOnCacheError bool
}

// Enabled reports whether caching is active for the named operation.
func (c *Config) Enabled(op string) bool {
	if c == nil || c.Store == nil {
		return false
	}
	switch op {
	case "list":
		return !c.DisableList
	case "get":
		return !c.DisableGet
	}
	return false
}
