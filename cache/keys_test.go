package cache

import (
	"strings"
	"testing"
)

func TestListKey(t *testing.T) {
	got, err := ListKey("app1", "Tasks", map[string]any{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("ListKey() error: %v", err)
	}
	want := `list::app1::Tasks::{"a":2,"b":1}`
	if got != want {
		t.Errorf("ListKey() = %q, want %q", got, want)
	}

	// Equivalent params in a different declaration order produce the same key.
	again, err := ListKey("app1", "Tasks", map[string]any{"a": 2, "b": 1})
	if err != nil {
		t.Fatalf("ListKey() error: %v", err)
	}
	if again != got {
		t.Errorf("ListKey() order sensitive: %q vs %q", again, got)
	}
}

func TestListKey_HasListPrefix(t *testing.T) {
	key, err := ListKey("app1", "Tasks", map[string]any{"view": "Grid view"})
	if err != nil {
		t.Fatalf("ListKey() error: %v", err)
	}
	if prefix := ListPrefix("app1", "Tasks"); !strings.HasPrefix(key, prefix) {
		t.Errorf("key %q does not start with prefix %q", key, prefix)
	}
}

func TestListKey_SerializationError(t *testing.T) {
	circular := map[string]any{}
	circular["self"] = circular

	if _, err := ListKey("app1", "Tasks", circular); err == nil {
		t.Error("ListKey() with circular params should fail")
	}
}

func TestRecordKey(t *testing.T) {
	got, err := RecordKey("app1", "Tasks", "rec123", map[string]any{})
	if err != nil {
		t.Fatalf("RecordKey() error: %v", err)
	}
	want := `get::app1::Tasks::rec123::{}`
	if got != want {
		t.Errorf("RecordKey() = %q, want %q", got, want)
	}

	if prefix := RecordPrefix("app1", "Tasks", "rec123"); !strings.HasPrefix(got, prefix) {
		t.Errorf("key %q does not start with prefix %q", got, prefix)
	}
}

func TestRecordPrefix_NoPartialMatches(t *testing.T) {
	short := RecordPrefix("app1", "Tasks", "rec1")
	key, err := RecordKey("app1", "Tasks", "rec12", nil)
	if err != nil {
		t.Fatalf("RecordKey() error: %v", err)
	}
	if strings.HasPrefix(key, short) {
		t.Errorf("rec12 key %q must not match rec1 prefix %q", key, short)
	}
}

func TestKeyEscaping(t *testing.T) {
	// Table names may contain spaces and the separator characters themselves.
	prefix := RecordPrefix("app1", "My Table", "rec::odd")
	if strings.Contains(prefix, " ") {
		t.Errorf("prefix %q contains unescaped space", prefix)
	}
	if strings.Count(prefix, KeySeparator) != 4 {
		t.Errorf("prefix %q has unexpected separator count, want 4", prefix)
	}
	if !strings.HasSuffix(prefix, KeySeparator) {
		t.Errorf("prefix %q must end with separator", prefix)
	}
}
