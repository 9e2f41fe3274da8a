package document

import (
	"errors"
	"fmt"
)

var ErrInvalidArgumentType = errors.New("invalid argument type")

// Merge fills keys that are missing from record with the template's defaults.
//
// Nested template objects are merged recursively; an absent or null sub-record
// counts as an empty object. Every other template value, arrays included, is
// only used whole when the key is missing. Present record values are never
// replaced, whatever they hold. Keys the template does not know are kept.
// Neither argument is modified and defaults are deep-copied into the result.
func Merge(record, template Object) (Object, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: record must be an object", ErrInvalidArgumentType)
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template must be an object", ErrInvalidArgumentType)
	}
	return merge("", record, template)
}

func merge(path string, record, template Object) (Object, error) {
	out := make(Object, len(record)+len(template))
	for k, v := range record {
		out[k] = v
	}

	for key, def := range template {
		if sub, ok := def.Object(); ok {
			current, present := out[key]
			var subRecord Object
			switch {
			case !present || current.IsNull():
				subRecord = Object{}
			case current.Kind() == KindObject:
				subRecord = current.object
			default:
				return nil, fmt.Errorf("%w: %s is %s, template expects object",
					ErrInvalidArgumentType, joinPath(path, key), current.Kind())
			}

			merged, err := merge(joinPath(path, key), subRecord, sub)
			if err != nil {
				return nil, err
			}
			out[key] = ObjectValue(merged)
			continue
		}

		if _, present := out[key]; !present {
			out[key] = def.Clone()
		}
	}

	return out, nil
}

// MergeAny merges decoded JSON or BSON data. Both arguments must be mappings.
func MergeAny(record, template any) (map[string]any, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: record must be an object", ErrInvalidArgumentType)
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template must be an object", ErrInvalidArgumentType)
	}

	r, err := AsObject(record)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	t, err := AsObject(template)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}

	merged, err := Merge(r, t)
	if err != nil {
		return nil, err
	}
	return merged.Map(), nil
}

// Overlay applies patch on top of base: patch values win, nested objects are
// overlaid key by key, and a null in patch removes the key.
func Overlay(base, patch Object) Object {
	out := make(Object, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, pv := range patch {
		if pv.IsNull() {
			delete(out, k)
			continue
		}
		if po, ok := pv.Object(); ok {
			if bo, ok := out[k].Object(); ok {
				out[k] = ObjectValue(Overlay(bo, po))
				continue
			}
		}
		out[k] = pv.Clone()
	}
	return out
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
