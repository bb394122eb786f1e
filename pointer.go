package goalter

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// childPath appends a JSON Pointer token to path, escaping '~' and '/' per
// RFC 6901. The root path is "/".
func childPath(path string, token any) string {
	var s string
	switch t := token.(type) {
	case int:
		s = strconv.Itoa(t)
	case string:
		s = pointerEscaper.Replace(t)
	default:
		s = fmt.Sprint(t)
	}
	if path == "/" || path == "" {
		return "/" + s
	}
	return path + "/" + s
}

// SplitPointer returns the unescaped tokens of a JSON Pointer. "" and "/"
// address the whole document.
func SplitPointer(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		parts[i] = pointerUnescaper.Replace(p)
	}
	return parts
}

// Lookup resolves a JSON Pointer, such as an Issue path, against a document.
func Lookup(doc any, pointer string) (any, bool) {
	cur := doc
	for _, tok := range SplitPointer(pointer) {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[tok]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
