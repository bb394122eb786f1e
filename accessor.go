package goalter

import (
	"fmt"
)

// IsList reports whether v is a list-shaped document. The runtime type is the
// discriminator: []any is a list, map[string]any is a map, nothing is inferred
// from keys.
func IsList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsMap reports whether v is a map-shaped document.
func IsMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// GetProperty reads key from doc. For a list document it returns a new list of
// every element's value (nil where missing); ok is true when at least one
// element holds the key.
func GetProperty(doc any, key string) (any, bool) {
	switch d := doc.(type) {
	case map[string]any:
		v, ok := d[key]
		return v, ok
	case []any:
		out := make([]any, len(d))
		found := false
		for i, e := range d {
			v, ok := GetProperty(e, key)
			out[i] = v
			found = found || ok
		}
		return out, found
	default:
		return nil, false
	}
}

// SetProperty writes value under key and returns doc. For a list document the
// value is written into every element.
func SetProperty(doc any, key string, value any) any {
	switch d := doc.(type) {
	case map[string]any:
		d[key] = value
	case []any:
		for _, e := range d {
			SetProperty(e, key, value)
		}
	}
	return doc
}

// Clone deep-copies a document tree. Typed slices and maps commonly produced
// by drivers ([]map[string]any, []string, map[string]string) are normalized to
// []any and map[string]any so every list answers IsList.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = e
		}
		return out
	default:
		return v
	}
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
