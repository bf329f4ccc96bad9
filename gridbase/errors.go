package gridbase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Construction errors. These are synchronous and fatal: the client or handle
// is simply not usable until the configuration is corrected.
var (
	ErrMissingAPIKey    = errors.New("gridbase: an API key is required to connect")
	ErrMissingBaseID    = errors.New("gridbase: a base id is required")
	ErrMissingTableName = errors.New("gridbase: a table name or id is required")
)

// APIError is the typed error raised for terminal non-2xx outcomes. It
// carries the numeric status, a best-effort short error code, and the raw
// parsed payload when the response body was JSON.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Payload    map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" && e.Type != e.Message {
		return fmt.Sprintf("gridbase: %s: %s (status %d)", e.Type, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("gridbase: %s (status %d)", e.Message, e.StatusCode)
}

// newAPIError builds the typed error from a terminal response. When the
// payload's "error" field is a string, that string serves as both code and
// message; when it is an object, its "type"/"message" sub-fields are used.
// Without a usable payload the error still carries the status with a generic
// message.
func newAPIError(status int, body []byte, contentType string) *APIError {
	apiErr := &APIError{StatusCode: status, Message: defaultErrorMessage(status)}

	if len(body) == 0 || !isJSONContentType(contentType) {
		return apiErr
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	apiErr.Payload = payload

	switch errField := payload["error"].(type) {
	case string:
		apiErr.Type = errField
		apiErr.Message = errField
	case map[string]any:
		if t, ok := errField["type"].(string); ok {
			apiErr.Type = t
		}
		if m, ok := errField["message"].(string); ok && m != "" {
			apiErr.Message = m
		}
	}
	return apiErr
}

func defaultErrorMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
