package config

import "reflect"

const (
	deprecatedTrailingSlashKey = "exportTrailingSlash"
	trailingSlashKey           = "trailingSlash"
	experimentalKey            = "experimental"
)

// mergeHooks receives the merge engine's side-channel notifications. Nil
// hooks are skipped.
type mergeHooks struct {
	// deprecated is called when a legacy key is migrated to its modern name.
	deprecated func(oldKey, newKey string)
	// experimental is called when the merged experimental subtree differs
	// from the defaults. The caller decides how often to surface it.
	experimental func()
}

// cleanUserTree builds the tagged form of a user tree: null-valued keys are
// dropped (a null is "absent", never an explicit override) and the deprecated
// trailing-slash key is migrated onto the modern one unless the modern key is
// already set. The input is never mutated.
func cleanUserTree(in map[string]any, h mergeHooks) map[string]taggedValue {
	out := make(map[string]taggedValue, len(in))
	for k, v := range in {
		kind := kindOf(v)
		if kind == kindNull {
			continue
		}
		out[k] = taggedValue{kind: kind, value: v}
	}

	if legacy, ok := out[deprecatedTrailingSlashKey]; ok {
		if _, set := out[trailingSlashKey]; !set {
			out[trailingSlashKey] = legacy
		}
		delete(out, deprecatedTrailingSlashKey)
		if h.deprecated != nil {
			h.deprecated(deprecatedTrailingSlashKey, trailingSlashKey)
		}
	}

	return out
}

// mergeTree overlays a user tree onto the defaults, one level deep: a
// record-valued key is merged field-by-field over the default record (records
// nested inside it replace wholesale, there is no deeper recursion), while
// scalars and sequences replace the default wholesale. Keys present only in
// the defaults keep their default value. A new tree is returned; neither
// input is modified.
func mergeTree(defaults, user map[string]any, h mergeHooks) map[string]any {
	merged := make(map[string]any, len(defaults)+len(user))
	for k, v := range defaults {
		merged[k] = deepClone(v)
	}

	for key, tv := range cleanUserTree(user, h) {
		switch tv.kind {
		case kindRecord:
			rec, ok := asRecord(tv.value)
			if !ok {
				// Non-string keys; hand through verbatim and let the
				// validator chain report it.
				merged[key] = deepClone(tv.value)
				continue
			}
			base, _ := asRecord(merged[key])
			sub := make(map[string]any, len(base)+len(rec))
			for sk, sv := range base {
				sub[sk] = sv
			}
			for sk, sv := range rec {
				if kindOf(sv) == kindNull {
					continue
				}
				sub[sk] = deepClone(sv)
			}
			merged[key] = sub
		default:
			merged[key] = deepClone(tv.value)
		}

		if key == experimentalKey && h.experimental != nil && !reflect.DeepEqual(merged[key], defaults[key]) {
			h.experimental()
		}
	}

	return merged
}
