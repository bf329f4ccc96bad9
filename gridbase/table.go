package gridbase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-gridbase/cache"
)

// Base is a handle on one base. It only carries identifiers; all state lives
// on the Client.
type Base struct {
	client *Client
	id     string
}

// ID returns the base identifier.
func (b *Base) ID() string { return b.id }

// Table returns a handle on a table by name or id.
func (b *Base) Table(nameOrID string) *Table {
	return &Table{client: b.client, baseID: b.id, name: nameOrID}
}

// Table exposes the typed record operations for one table.
type Table struct {
	client *Client
	baseID string
	name   string
}

func (t *Table) validate() error {
	if t.baseID == "" {
		return ErrMissingBaseID
	}
	if t.name == "" {
		return ErrMissingTableName
	}
	return nil
}

func (t *Table) path() string {
	return "/v0/" + url.PathEscape(t.baseID) + "/" + url.PathEscape(t.name)
}

func (t *Table) recordPath(recordID string) string {
	return t.path() + "/" + url.PathEscape(recordID)
}

// ListRecords fetches one page of records. When a cache store is configured
// and list caching is enabled the page is served read-through: a warm key
// returns without touching the transport.
func (t *Table) ListRecords(ctx context.Context, opts ListOptions) (*RecordPage, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	active := t.client.cache.Enabled("list")
	var key string
	var keyErr error
	if active {
		key, keyErr = cache.ListKey(t.baseID, t.name, opts.params())
	}

	actx := cache.AttachmentContext{BaseID: t.baseID, Table: t.name}
	return cachedFetch(ctx, t.client, active, key, keyErr, actx, func(ctx context.Context) (*RecordPage, error) {
		return requestJSON[*RecordPage](ctx, t.client, http.MethodGet, t.path(), opts.query(), nil, nil)
	})
}

// GetRecord fetches a single record by id, read-through when get caching is
// active. The cache key is scoped to the record and the display parameters.
func (t *Table) GetRecord(ctx context.Context, recordID string, opts GetRecordOptions) (*Record, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	active := t.client.cache.Enabled("get")
	var key string
	var keyErr error
	if active {
		key, keyErr = cache.RecordKey(t.baseID, t.name, recordID, opts.params())
	}

	actx := cache.AttachmentContext{BaseID: t.baseID, Table: t.name, RecordID: recordID}
	return cachedFetch(ctx, t.client, active, key, keyErr, actx, func(ctx context.Context) (*Record, error) {
		return requestJSON[*Record](ctx, t.client, http.MethodGet, t.recordPath(recordID), opts.query(), nil, nil)
	})
}

// CreateRecords creates one record per Fields value and invalidates the
// table's cached listings.
func (t *Table) CreateRecords(ctx context.Context, fields ...Fields) ([]*Record, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	entries := make([]createEntry, len(fields))
	for i, f := range fields {
		entries[i] = createEntry{Fields: f}
	}

	resp, err := requestJSON[recordsEnvelope](ctx, t.client, http.MethodPost, t.path(), nil, createEnvelope{Records: entries}, nil)
	if err != nil {
		return nil, err
	}
	if err := t.invalidateCache(ctx); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// CreateRecord creates a single record.
func (t *Table) CreateRecord(ctx context.Context, fields Fields) (*Record, error) {
	records, err := t.CreateRecords(ctx, fields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// UpdateRecords applies each update and invalidates the table's cached
// listings plus every affected record's cached views. When destructive is
// true the update replaces the records' fields wholesale (PUT) instead of
// merging (PATCH).
func (t *Table) UpdateRecords(ctx context.Context, updates []RecordUpdate, destructive bool) ([]*Record, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	method := http.MethodPatch
	if destructive {
		method = http.MethodPut
	}

	resp, err := requestJSON[recordsEnvelope](ctx, t.client, method, t.path(), nil, updateEnvelope{Records: updates}, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}
	if err := t.invalidateCache(ctx, ids...); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// UpdateRecord merges fields into a single record.
func (t *Table) UpdateRecord(ctx context.Context, recordID string, fields Fields) (*Record, error) {
	records, err := t.UpdateRecords(ctx, []RecordUpdate{{ID: recordID, Fields: fields}}, false)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// DeleteRecords deletes the given records and invalidates their cached views
// along with the table's cached listings.
func (t *Table) DeleteRecords(ctx context.Context, recordIDs ...string) ([]*DeletedRecord, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	for _, id := range recordIDs {
		q.Add("records[]", id)
	}

	resp, err := requestJSON[deletedEnvelope](ctx, t.client, http.MethodDelete, t.path(), q, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := t.invalidateCache(ctx, recordIDs...); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// DeleteRecord deletes a single record.
func (t *Table) DeleteRecord(ctx context.Context, recordID string) (*DeletedRecord, error) {
	deleted, err := t.DeleteRecords(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return nil, nil
	}
	return deleted[0], nil
}
