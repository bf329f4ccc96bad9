package gridbase

import (
	"context"

	"github.com/goliatone/go-gridbase/cache"
)

// Fields is a record's field-value mapping. Values are whatever JSON the
// remote API returned; the client passes them through unmodified.
type Fields map[string]any

// Record is a single row-like entity with a stable identifier.
type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

// RecordPage is one page of a listing. An empty Offset signals exhaustion;
// a non-empty one is the opaque cursor for the next page.
type RecordPage struct {
	Records []*Record `json:"records"`
	Offset  string    `json:"offset,omitempty"`
}

// DeletedRecord acknowledges a deletion.
type DeletedRecord struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// RecordUpdate identifies a record and the field values to write to it.
type RecordUpdate struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// recordsEnvelope is the wire shape shared by batch mutations and their
// responses.
type recordsEnvelope struct {
	Records []*Record `json:"records"`
}

type updateEnvelope struct {
	Records []RecordUpdate `json:"records"`
}

type createEnvelope struct {
	Records []createEntry `json:"records"`
}

type createEntry struct {
	Fields Fields `json:"fields"`
}

type deletedEnvelope struct {
	Records []*DeletedRecord `json:"records"`
}

// isAttachmentShaped reports whether a value looks like a binary attachment:
// an object carrying both an id and a url.
func isAttachmentShaped(m map[string]any) bool {
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return false
	}
	_, hasURL := m["url"].(string)
	return hasURL
}

// transformAttachments walks a record's fields and runs every
// attachment-shaped value through the store's transform hook, replacing it
// with the hook's result. Fields without attachments are untouched.
func transformAttachments(ctx context.Context, tr cache.AttachmentTransformer, rec *Record, actx cache.AttachmentContext) error {
	if rec == nil {
		return nil
	}
	actx.RecordID = rec.ID
	for field, value := range rec.Fields {
		items, ok := value.([]any)
		if !ok {
			continue
		}
		actx.Field = field
		for i, item := range items {
			att, ok := item.(map[string]any)
			if !ok || !isAttachmentShaped(att) {
				continue
			}
			transformed, err := tr.TransformAttachment(ctx, att, actx)
			if err != nil {
				return err
			}
			items[i] = transformed
		}
	}
	return nil
}
