// Package gridbase is a typed client for a tabular-data HTTP API with an
// optional read-through caching layer.
//
// # Overview
//
// A Client issues requests against bases, tables, and records. Reads
// (ListRecords, GetRecord) go through a retrying request executor and, when a
// cache store is configured, a read-through layer keyed on the base, table,
// record, and normalized request parameters. Writes (CreateRecords,
// UpdateRecords, DeleteRecords) always hit the transport and invalidate the
// affected cache prefixes on success.
//
// # Basic Usage
//
//	client, err := gridbase.New(gridbase.Config{
//		APIKey: os.Getenv("GRIDBASE_API_KEY"),
//		Cache: &cache.Config{
//			Store:      cache.NewMemoryStore(),
//			DefaultTTL: time.Minute,
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tasks := client.Base("appEXAMPLE").Table("Tasks")
//	page, err := tasks.ListRecords(ctx, gridbase.ListOptions{View: "Grid view"})
//
// # Retry Behavior
//
// The executor retries responses whose status is in the configured retryable
// set, up to MaxRetries additional attempts. A Retry-After hint from the
// server takes full precedence over the computed exponential backoff;
// otherwise the delay doubles per attempt with up to 20% additive jitter.
// Rate-limit responses can be excluded from retry with NoRetryIfRateLimited.
//
// # Caching Behavior
//
// Cached reads follow a read-through pattern:
//
//  1. Compute the cache key from the table and normalized parameters
//  2. On a hit, return the cached result without touching the transport
//  3. On a miss, perform the request through the executor
//  4. Write the result through with the configured default TTL
//
// Cache failures are best-effort by default: they are reported to the
// configured observer and swallowed, so a cache outage degrades to
// always-fresh reads instead of breaking calls. Set FailOnCacheError to make
// them fatal. Transport errors are never swallowed.
//
// # Errors
//
// Terminal non-2xx responses surface as *APIError carrying the status, a
// short machine-readable code when the payload provides one, and the raw
// payload. Missing credentials or identifiers fail synchronously with the
// ErrMissing* construction errors.
package gridbase
