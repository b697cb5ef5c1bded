package config

import "reflect"

// valueKind tags a raw configuration value for merge dispatch. The kind is
// decided once, when the user tree is cleaned; the merge loop dispatches on
// this closed set and never inspects shapes again.
type valueKind int

const (
	kindNull valueKind = iota
	kindScalar
	kindSequence
	kindRecord
)

// taggedValue pairs a raw value with its kind.
type taggedValue struct {
	kind  valueKind
	value any
}

func kindOf(v any) valueKind {
	switch v.(type) {
	case nil:
		return kindNull
	case map[string]any:
		return kindRecord
	case []any:
		return kindSequence
	}

	// Direct overrides may carry typed slices or maps that YAML never
	// produces.
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return kindSequence
	case reflect.Map:
		return kindRecord
	}
	return kindScalar
}

// asRecord returns v as a string-keyed mapping. Mappings with non-string
// keys are rejected.
func asRecord(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// asSequence returns v as a generic slice, accepting both []any and typed
// slices from direct overrides.
func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asNumber returns v as a float64 when it is any numeric type.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// deepClone copies mappings and sequences recursively; scalars are returned
// as-is. Merged trees are mutated by the validator fixups, so they must not
// alias their inputs.
func deepClone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = deepClone(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepClone(e)
		}
		return out
	}
	return v
}
