package goalter

import (
	"reflect"
	"strings"
)

// ResolveKey applies the rule that maps a struct field to its document key.
// Priority: goalter:"name=..." > json tag name > field name; "-" disables the field.
func ResolveKey(field string, tag reflect.StructTag) string {
	if gt := tag.Get("goalter"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt
		}
	}
	return field
}

// ResolveStructKey is ResolveKey for a reflected field.
func ResolveStructKey(sf reflect.StructField) string {
	return ResolveKey(sf.Name, sf.Tag)
}
