package goalter

import (
	"reflect"
	"strings"

	"github.com/reoring/goalter/internal/coerce"
)

// NormalizeFlag selects what Normalize strips from a subtree.
type NormalizeFlag int

const (
	// NormalizeNulls drops nil entries.
	NormalizeNulls NormalizeFlag = 1 << iota
	// NormalizeEmpty drops "" and empty lists and maps.
	NormalizeEmpty
	// NormalizeTrim trims strings before they are tested for emptiness.
	NormalizeTrim
	// NormalizeReturnNull collapses an emptied container or string to nil.
	NormalizeReturnNull

	NormalizeDefault = NormalizeNulls | NormalizeEmpty | NormalizeReturnNull
	NormalizeAll     = NormalizeNulls | NormalizeEmpty | NormalizeTrim | NormalizeReturnNull
)

var normalizeFlagNames = map[string]NormalizeFlag{
	"nulls":       NormalizeNulls,
	"empty":       NormalizeEmpty,
	"trim":        NormalizeTrim,
	"return_null": NormalizeReturnNull,
	"default":     NormalizeDefault,
	"all":         NormalizeAll,
}

// ParseNormalizeFlag reads a flag set from an int, a "nulls|trim" string or a
// list of names. Unknown or missing input yields NormalizeDefault.
func ParseNormalizeFlag(v any) NormalizeFlag {
	switch t := v.(type) {
	case nil:
		return NormalizeDefault
	case NormalizeFlag:
		return t
	case string:
		return parseFlagNames(strings.FieldsFunc(t, func(r rune) bool { return r == '|' || r == ',' }))
	case []any:
		names := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				names = append(names, s)
			}
		}
		return parseFlagNames(names)
	default:
		if i, ok := coerce.ToInt(v); ok && i > 0 {
			return NormalizeFlag(i)
		}
		return NormalizeDefault
	}
}

func parseFlagNames(names []string) NormalizeFlag {
	var f NormalizeFlag
	for _, n := range names {
		f |= normalizeFlagNames[strings.ToLower(strings.TrimSpace(n))]
	}
	if f == 0 {
		return NormalizeDefault
	}
	return f
}

// NormalizeValue strips v according to f. It is idempotent:
// NormalizeValue(NormalizeValue(v, f), f) equals NormalizeValue(v, f).
func NormalizeValue(v any, f NormalizeFlag) any {
	switch t := v.(type) {
	case string:
		if f&NormalizeTrim != 0 {
			t = strings.TrimSpace(t)
		}
		if t == "" && f&NormalizeEmpty != 0 && f&NormalizeReturnNull != 0 {
			return nil
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			ne := NormalizeValue(e, f)
			if dropped(ne, f) {
				continue
			}
			out = append(out, ne)
		}
		if len(out) == 0 && f&NormalizeReturnNull != 0 {
			return nil
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ne := NormalizeValue(e, f)
			if dropped(ne, f) {
				continue
			}
			out[k] = ne
		}
		if len(out) == 0 && f&NormalizeReturnNull != 0 {
			return nil
		}
		return out
	default:
		return v
	}
}

func dropped(v any, f NormalizeFlag) bool {
	if v == nil {
		return f&NormalizeNulls != 0
	}
	return f&NormalizeEmpty != 0 && coerce.IsEmpty(v)
}

func normalizeHandler(_ *Context, v any, s Step) (Result, error) {
	out := NormalizeValue(v, ParseNormalizeFlag(s.Arg(0)))
	return Result{Value: out, Modified: !reflect.DeepEqual(v, out)}, nil
}

// listifyHandler splits on Args[0], trims, drops empties and joins with
// Args[1]. An empty outcome becomes Args[2].
func listifyHandler(c *Context, v any, s Step) (Result, error) {
	sep := s.StringArg(0, DefaultSeparator)
	join := "\n"
	if j, ok := s.Arg(1).(string); ok {
		join = j
	}
	var raw []string
	switch t := v.(type) {
	case nil:
	case map[string]any:
		return c.Fallback(v, newIssue(s.Op, CodeInvalidType, nil)), nil
	case []any:
		for _, e := range t {
			if str, ok := coerce.ToString(e); ok {
				raw = append(raw, strings.Split(str, sep)...)
			}
		}
	default:
		str, _ := coerce.ToString(t)
		raw = strings.Split(str, sep)
	}
	items := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			items = append(items, r)
		}
	}
	var out any
	if len(items) == 0 {
		out = Clone(s.Arg(2))
	} else {
		out = strings.Join(items, join)
	}
	return Result{Value: out, Modified: !reflect.DeepEqual(v, out)}, nil
}
