package gridbase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-gridbase/cache"
)

// invalidateCache removes the cache entries affected by a completed mutation:
// always the table-level prefix (every cached list result for the table),
// plus the record-level prefix for each identified record (every cached
// get-by-id view, regardless of display parameters).
//
// Per-record deletions run concurrently with no relative order, but all are
// awaited before the mutation returns. A store without DeleteByPrefix makes
// this a silent no-op and the cache degrades to TTL eventual consistency.
func (t *Table) invalidateCache(ctx context.Context, recordIDs ...string) error {
	cfg := t.client.cache
	if cfg == nil || cfg.Store == nil {
		return nil
	}
	pd, ok := cfg.Store.(cache.PrefixDeleter)
	if !ok {
		return nil
	}

	tablePrefix := cache.ListPrefix(t.baseID, t.name)
	if err := pd.DeleteByPrefix(ctx, tablePrefix); err != nil {
		if perr := t.client.cacheFail(err, cache.ErrorContext{Op: cache.OpDelete, Prefix: tablePrefix}); perr != nil {
			return perr
		}
	}

	if len(recordIDs) == 0 {
		return nil
	}

	// Plain errgroup on purpose: a failing deletion must not cancel its
	// siblings, every prefix delete is initiated and awaited.
	var g errgroup.Group
	for _, id := range recordIDs {
		prefix := cache.RecordPrefix(t.baseID, t.name, id)
		g.Go(func() error {
			if err := pd.DeleteByPrefix(ctx, prefix); err != nil {
				return t.client.cacheFail(err, cache.ErrorContext{Op: cache.OpDelete, Prefix: prefix})
			}
			return nil
		})
	}
	return g.Wait()
}
