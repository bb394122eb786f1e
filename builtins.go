package goalter

import (
	"context"
	"strings"
	"unicode"

	json "github.com/goccy/go-json"

	"github.com/reoring/goalter/internal/coerce"
)

// Builtins returns the free functions a Call step can name directly. The map
// is a fresh copy; callers may extend it before handing it to Config.
func Builtins() map[string]CallFunc {
	return map[string]CallFunc{
		"trim":        stringFunc(strings.TrimSpace),
		"lower":       stringFunc(strings.ToLower),
		"upper":       stringFunc(strings.ToUpper),
		"title":       stringFunc(titleCase),
		"strval":      strval,
		"intval":      intval,
		"floatval":    floatval,
		"boolval":     boolval,
		"json_encode": jsonEncode,
		"json_decode": jsonDecode,
		"count":       count,
		"implode":     implode,
		"explode":     explode,
	}
}

func stringFunc(fn func(string) string) CallFunc {
	return func(_ context.Context, v any, _ ...any) (any, error) {
		if s, ok := v.(string); ok {
			return fn(s), nil
		}
		return v, nil
	}
}

func titleCase(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		defer func() { prev = r }()
		if unicode.IsSpace(prev) || prev == '-' {
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}

func strval(_ context.Context, v any, _ ...any) (any, error) {
	if s, ok := coerce.ToString(v); ok {
		return s, nil
	}
	return v, nil
}

func intval(_ context.Context, v any, _ ...any) (any, error) {
	if i, ok := coerce.ToInt(v); ok {
		return i, nil
	}
	return v, nil
}

func floatval(_ context.Context, v any, _ ...any) (any, error) {
	if f, ok := coerce.ToFloat(v); ok {
		return f, nil
	}
	return v, nil
}

func boolval(_ context.Context, v any, _ ...any) (any, error) {
	return coerce.Truthy(v), nil
}

func jsonEncode(_ context.Context, v any, _ ...any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	return string(b), nil
}

func jsonDecode(_ context.Context, v any, _ ...any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	out, err := decodeJSON(s)
	if err != nil {
		return v, nil
	}
	return out, nil
}

func count(_ context.Context, v any, _ ...any) (any, error) {
	switch c := v.(type) {
	case []any:
		return len(c), nil
	case map[string]any:
		return len(c), nil
	case string:
		return len([]rune(c)), nil
	case nil:
		return 0, nil
	default:
		return 1, nil
	}
}

// implode joins a list with args[0] (default ",").
func implode(_ context.Context, v any, args ...any) (any, error) {
	list, ok := v.([]any)
	if !ok {
		return v, nil
	}
	sep := ","
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			sep = s
		}
	}
	parts := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := coerce.ToString(e); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep), nil
}

// explode splits a string on args[0] (default ",").
func explode(_ context.Context, v any, args ...any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	sep := ","
	if len(args) > 0 {
		if a, ok := args[0].(string); ok && a != "" {
			sep = a
		}
	}
	parts := strings.Split(s, sep)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

// decodeJSON decodes s into the plain document tree (numbers as float64).
func decodeJSON(s string) (any, error) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
