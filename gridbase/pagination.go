package gridbase

import (
	"context"
	"errors"
)

// ErrStopIteration can be returned from a ForEachPage callback to end the
// iteration early without surfacing an error to the caller.
var ErrStopIteration = errors.New("gridbase: stop iteration")

// ForEachPage invokes fn for every page of the listing, following the
// continuation cursor until the remote signals exhaustion or the MaxRecords
// cap is reached. Each page independently goes through the full cache
// algorithm, so only identical page requests (same table, params, cursor)
// reuse cached results.
func (t *Table) ForEachPage(ctx context.Context, opts ListOptions, fn func(page *RecordPage) error) error {
	fetched := 0
	for {
		page, err := t.ListRecords(ctx, opts)
		if err != nil {
			return err
		}

		if opts.MaxRecords > 0 && fetched+len(page.Records) > opts.MaxRecords {
			page = &RecordPage{Records: page.Records[:opts.MaxRecords-fetched]}
		}
		fetched += len(page.Records)

		if err := fn(page); err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}

		if page.Offset == "" {
			return nil
		}
		if opts.MaxRecords > 0 && fetched >= opts.MaxRecords {
			return nil
		}
		opts.Offset = page.Offset
	}
}

// AllRecords accumulates every page of the listing into one slice, honoring
// the MaxRecords cap.
func (t *Table) AllRecords(ctx context.Context, opts ListOptions) ([]*Record, error) {
	var all []*Record
	err := t.ForEachPage(ctx, opts, func(page *RecordPage) error {
		all = append(all, page.Records...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
