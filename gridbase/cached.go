package gridbase

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-gridbase/cache"
)

// cachedFetch wraps one cacheable read with the read-through algorithm:
// consult the store under key, fall back to fetch on a miss, write the fresh
// result through, and route every cache failure through the shared error
// policy. The transport is never invoked on a hit, and a cache failure never
// hides a successful fetch unless FailOnCacheError is set.
//
// keyErr carries a key-computation failure (circular parameters); it is
// treated as a cache-layer error, and when swallowed the call degrades to an
// uncached fetch.
func cachedFetch[T any](ctx context.Context, c *Client, active bool, key string, keyErr error, actx cache.AttachmentContext, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if !active {
		return fetch(ctx)
	}

	cfg := c.cache

	if keyErr != nil {
		if err := c.cacheFail(keyErr, cache.ErrorContext{Op: cache.OpGet}); err != nil {
			return zero, err
		}
		return fetch(ctx)
	}

	cached, ok, err := cfg.Store.Get(ctx, key)
	if err != nil {
		if perr := c.cacheFail(err, cache.ErrorContext{Op: cache.OpGet, Key: key}); perr != nil {
			return zero, perr
		}
	} else if ok {
		if value, decoded := coerce[T](cached); decoded {
			return value, nil
		}
		// Undecodable hit: report and fall through to a fresh fetch.
		if perr := c.cacheFail(errUndecodableEntry, cache.ErrorContext{Op: cache.OpGet, Key: key}); perr != nil {
			return zero, perr
		}
	}

	result, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if tr, hasHook := cfg.Store.(cache.AttachmentTransformer); hasHook {
		if terr := applyAttachmentHook(ctx, tr, result, actx); terr != nil {
			if perr := c.cacheFail(terr, cache.ErrorContext{Op: cache.OpSet, Key: key}); perr != nil {
				return zero, perr
			}
		}
	}

	if serr := cfg.Store.Set(ctx, key, result, cfg.DefaultTTL); serr != nil {
		if perr := c.cacheFail(serr, cache.ErrorContext{Op: cache.OpSet, Key: key}); perr != nil {
			return zero, perr
		}
	}
	return result, nil
}

// coerce turns a cached value back into the caller's type. In-process stores
// return the stored value directly; byte-oriented stores return the encoded
// form, which is re-decoded here.
func coerce[T any](cached any) (T, bool) {
	var out T
	if typed, ok := cached.(T); ok {
		return typed, true
	}
	var data []byte
	switch v := cached.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	default:
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

// applyAttachmentHook runs the store's attachment transform over the records
// contained in a fetch result before it is written through.
func applyAttachmentHook(ctx context.Context, tr cache.AttachmentTransformer, result any, actx cache.AttachmentContext) error {
	switch v := result.(type) {
	case *Record:
		return transformAttachments(ctx, tr, v, actx)
	case *RecordPage:
		if v == nil {
			return nil
		}
		for _, rec := range v.Records {
			if err := transformAttachments(ctx, tr, rec, actx); err != nil {
				return err
			}
		}
	}
	return nil
}

type undecodableEntryError struct{}

func (undecodableEntryError) Error() string {
	return "gridbase: cached entry could not be decoded into the requested type"
}

var errUndecodableEntry = undecodableEntryError{}
