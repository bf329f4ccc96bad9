package testsupport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewRecordID generates a record identifier in the remote API's "rec..."
// shape, unique per call.
func NewRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

// RecordJSON renders one record body as the API would return it.
func RecordJSON(id string, fields map[string]any) string {
	body, err := json.Marshal(map[string]any{
		"id":          id,
		"createdTime": "2024-01-01T00:00:00.000Z",
		"fields":      fields,
	})
	if err != nil {
		panic(fmt.Sprintf("testsupport: marshal record: %v", err))
	}
	return string(body)
}

// PageJSON renders a listing page holding the given record bodies. An empty
// offset signals the last page.
func PageJSON(offset string, recordBodies ...string) string {
	var b strings.Builder
	b.WriteString(`{"records":[`)
	b.WriteString(strings.Join(recordBodies, ","))
	b.WriteString(`]`)
	if offset != "" {
		b.WriteString(`,"offset":`)
		encoded, _ := json.Marshal(offset)
		b.Write(encoded)
	}
	b.WriteString(`}`)
	return b.String()
}
