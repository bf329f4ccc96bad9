package cache

import (
	"net/url"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// Namespace tokens for the two cacheable read shapes.
const (
	listNamespace = "list"
	getNamespace  = "get"
)

// ListPrefix returns the key prefix shared by every cached list-style result
// for a table. Deleting by this prefix invalidates all of them at once.
func ListPrefix(baseID, table string) string {
	return joinSegments(listNamespace, baseID, url.QueryEscape(table)) + KeySeparator
}

// ListKey builds the cache key for a list operation over the given table with
// the given normalized query parameters. Logically-equivalent parameter
// objects yield byte-identical keys.
func ListKey(baseID, table string, params any) (string, error) {
	serialized, err := StableStringify(params)
	if err != nil {
		return "", err
	}
	return ListPrefix(baseID, table) + serialized, nil
}

// RecordPrefix returns the key prefix shared by every cached get-by-id view of
// a record, regardless of which display parameters were used to fetch it.
// Identifiers are escaped so a record id can never prefix-match a longer one.
func RecordPrefix(baseID, table, recordID string) string {
	return joinSegments(getNamespace, baseID, url.QueryEscape(table), url.QueryEscape(recordID)) + KeySeparator
}

// RecordKey builds the cache key for a single-record read.
func RecordKey(baseID, table, recordID string, params any) (string, error) {
	serialized, err := StableStringify(params)
	if err != nil {
		return "", err
	}
	return RecordPrefix(baseID, table, recordID) + serialized, nil
}

func joinSegments(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}
