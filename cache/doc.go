// Package cache provides the caching surface for the gridbase client: stable
// key serialization, pluggable store contracts, and the reference in-process
// LRU+TTL store.
//
// # Overview
//
// The package centers on three pieces:
//
//   - StableStringify: deterministic JSON rendering of arbitrary parameter
//     values, with map keys sorted at every nesting level
//   - Store and its optional capabilities (Deleter, PrefixDeleter,
//     AttachmentTransformer): the contract cache backends satisfy
//   - MemoryStore: the reference LRU+TTL implementation
//
// # Cache keys
//
// Keys are built by ListKey and RecordKey from a namespace token, the base id,
// escaped table/record identifiers, and the stable serialization of the
// request's normalized parameters:
//
//	key, err := cache.ListKey("appXXX", "Tasks", map[string]any{
//		"view":     "Grid view",
//		"pageSize": 50,
//	})
//
// Because StableStringify is order-insensitive for maps, two logically
// equivalent parameter objects always produce byte-identical keys. ListPrefix
// and RecordPrefix return the key with the serialized-parameters suffix
// omitted; they exist for bulk invalidation via PrefixDeleter, and are usable
// by external code that wants to reason about or pre-warm specific keys.
//
// # Stores
//
// Any implementation satisfying the Store shape is acceptable; the optional
// capabilities are discovered with type assertions, and absence means "feature
// disabled", never an error. Three implementations ship with the module:
// MemoryStore here, a sturdyc-backed store via NewSturdycStore, and a
// Redis-backed store in pkg/redisstore.
//
// # Error policy
//
// Config carries the shared cache-error policy used by the client's cached
// reads and mutation invalidation: failures are reported to OnError and then
// swallowed unless FailOnCacheError is set. The cache is best-effort by
// default; only opting into strict mode surfaces cache problems as hard
// failures.
package cache
