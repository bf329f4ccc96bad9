package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// circularMessage is the message carried by errors returned when a value
// reachable from itself is passed to StableStringify.
const circularMessage = "Converting circular structure to JSON in stableStringify"

// CircularStructureError is returned by StableStringify when it encounters an
// active ancestor-descendant cycle while walking the value.
type CircularStructureError struct{}

// Error implements the error interface.
func (e *CircularStructureError) Error() string { return circularMessage }

// StableStringify renders v as deterministic JSON suitable for cache keys.
//
// Maps are rendered with keys sorted lexicographically at every nesting level,
// so two logically-equivalent parameter objects produce byte-identical output
// regardless of construction order. Structs, time.Time, and json.Marshaler
// implementations are not key-sorted; they are handed to encoding/json
// unchanged so their native marshaling applies. Slices and arrays preserve
// element order.
//
// Kinds with no JSON representation (funcs, channels, complex numbers) are
// dropped when they appear as map values and rendered as null when they appear
// as slice or array elements. A top-level value with no representation yields
// the empty string.
//
// Circular references raise a *CircularStructureError. Detection is scoped to
// one call: only an active ancestor-descendant cycle is an error, a sibling
// subtree referencing an already-exited node is fine.
func StableStringify(v any) (string, error) {
	var b strings.Builder
	wrote, err := writeStable(&b, reflect.ValueOf(v), map[uintptr]struct{}{})
	if err != nil {
		return "", err
	}
	if !wrote {
		return "", nil
	}
	return b.String(), nil
}

// writeStable appends the canonical rendering of rv to b. It reports false
// without writing when rv has no JSON representation.
func writeStable(b *strings.Builder, rv reflect.Value, active map[uintptr]struct{}) (bool, error) {
	if !rv.IsValid() {
		b.WriteString("null")
		return true, nil
	}

	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			b.WriteString("null")
			return true, nil
		}
		return writeStable(b, rv.Elem(), active)
	}

	// Custom marshalers keep their native serialization, same as non-plain
	// objects in the JSON sense.
	if rv.Type().Implements(marshalerType) && (rv.Kind() != reflect.Ptr || !rv.IsNil()) {
		return writeNative(b, rv)
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			b.WriteString("null")
			return true, nil
		}
		addr := rv.Pointer()
		if _, ok := active[addr]; ok {
			return false, &CircularStructureError{}
		}
		active[addr] = struct{}{}
		defer delete(active, addr)
		return writeStable(b, rv.Elem(), active)

	case reflect.Map:
		if rv.IsNil() {
			b.WriteString("null")
			return true, nil
		}
		addr := rv.Pointer()
		if _, ok := active[addr]; ok {
			return false, &CircularStructureError{}
		}
		active[addr] = struct{}{}
		defer delete(active, addr)
		return writeStableMap(b, rv, active)

	case reflect.Slice:
		if rv.IsNil() {
			b.WriteString("null")
			return true, nil
		}
		addr := rv.Pointer()
		if _, ok := active[addr]; ok {
			return false, &CircularStructureError{}
		}
		active[addr] = struct{}{}
		defer delete(active, addr)
		return writeStableList(b, rv, active)

	case reflect.Array:
		return writeStableList(b, rv, active)

	case reflect.Struct:
		// Non-plain in the JSON sense: field order is part of the type's
		// contract, so the native renderer applies.
		return writeNative(b, rv)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return writeNative(b, rv)

	default:
		// Func, Chan, Complex, UnsafePointer: no JSON representation.
		return false, nil
	}
}

func writeStableMap(b *strings.Builder, rv reflect.Value, active map[uintptr]struct{}) (bool, error) {
	type pair struct {
		key     string
		encoded string
	}
	pairs := make([]pair, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKeyString(iter.Key())
		if err != nil {
			return false, err
		}

		var vb strings.Builder
		wrote, err := writeStable(&vb, iter.Value(), active)
		if err != nil {
			return false, err
		}
		if !wrote {
			// Unsupported map values are dropped, matching JSON-stringify
			// omission semantics.
			continue
		}
		pairs = append(pairs, pair{key: key, encoded: vb.String()})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		keyJSON, err := json.Marshal(p.key)
		if err != nil {
			return false, err
		}
		b.Write(keyJSON)
		b.WriteByte(':')
		b.WriteString(p.encoded)
	}
	b.WriteByte('}')
	return true, nil
}

func writeStableList(b *strings.Builder, rv reflect.Value, active map[uintptr]struct{}) (bool, error) {
	b.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		wrote, err := writeStable(b, rv.Index(i), active)
		if err != nil {
			return false, err
		}
		if !wrote {
			// Unsupported elements render as null, array semantics.
			b.WriteString("null")
		}
	}
	b.WriteByte(']')
	return true, nil
}

// mapKeyString converts a map key to its JSON object-key form.
func mapKeyString(rv reflect.Value) (string, error) {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", rv.Uint()), nil
	default:
		return "", fmt.Errorf("cache: unsupported map key type %s in stableStringify", rv.Type())
	}
}

// writeNative delegates to encoding/json for values whose serialization is
// already deterministic. A cycle reached through a delegated value surfaces as
// the same circular-structure error as one detected by the walker.
func writeNative(b *strings.Builder, rv reflect.Value) (bool, error) {
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) && strings.Contains(unsupported.Str, "cycle") {
			return false, &CircularStructureError{}
		}
		return false, err
	}
	b.Write(data)
	return true, nil
}

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
