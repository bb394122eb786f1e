package goalter

import (
	"reflect"

	"github.com/reoring/goalter/internal/coerce"
)

// valueHandler replaces v with the constant Args[0].
func valueHandler(_ *Context, v any, s Step) (Result, error) {
	want := s.Arg(0)
	if reflect.DeepEqual(v, want) {
		return Result{Value: v}, nil
	}
	return Result{Value: Clone(want), Modified: true}, nil
}

// notHandler inverts the truthiness of v, element-wise for lists.
func notHandler(_ *Context, v any, _ Step) (Result, error) {
	return Result{Value: invert(v), Modified: true}, nil
}

func invert(v any) any {
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, e := range list {
			out[i] = invert(e)
		}
		return out
	}
	return !coerce.Truthy(v)
}

func intHandler(c *Context, v any, s Step) (Result, error) {
	return castEach(c, v, s.Op, func(e any) (any, bool, bool) {
		i, ok := coerce.ToInt(e)
		_, already := e.(int)
		return i, ok, !already
	}), nil
}

func floatHandler(c *Context, v any, s Step) (Result, error) {
	return castEach(c, v, s.Op, func(e any) (any, bool, bool) {
		f, ok := coerce.ToFloat(e)
		_, already := e.(float64)
		return f, ok, !already
	}), nil
}

// castEach applies cast to a scalar, or to every element of a list. cast
// returns the converted value, whether e was convertible, and whether the
// conversion changed the type.
func castEach(c *Context, v any, op Op, cast func(e any) (any, bool, bool)) Result {
	list, isList := v.([]any)
	if !isList {
		out, ok, changed := cast(v)
		if !ok {
			return c.Fallback(v, newIssue(op, CodeInvalidType, nil))
		}
		return Result{Value: out, Modified: changed}
	}
	res := Result{Value: make([]any, len(list))}
	out := res.Value.([]any)
	for i, e := range list {
		r := castEach(c.at(i), e, op, cast)
		out[i] = r.Value
		res.Modified = res.Modified || r.Modified
	}
	return res
}

// cleanHandler drops nil and "" entries from a list or a map.
func cleanHandler(c *Context, v any, s Step) (Result, error) {
	switch t := v.(type) {
	case nil:
		return Result{}, nil
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if !blank(e) {
				out = append(out, e)
			}
		}
		return Result{Value: out, Modified: len(out) < len(t)}, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if !blank(e) {
				out[k] = e
			}
		}
		return Result{Value: out, Modified: len(out) < len(t)}, nil
	default:
		return c.Fallback(v, newIssue(s.Op, CodeInvalidType, nil)), nil
	}
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
