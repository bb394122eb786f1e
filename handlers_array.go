package goalter

import (
	"strings"
)

// DefaultSeparator splits ArraySplit and Listify input.
const DefaultSeparator = ";"

// splitOps are the operations an ArraySplit sub-chain may hold. Clean and
// Normalize see the whole list; the others run on every element.
var splitOps = map[Op]bool{
	Call:      true,
	Clean:     true,
	Float:     true,
	Get:       true,
	Hydrate:   true,
	Normalize: true,
	Not:       true,
	Int:       true,
	JsonParse: true,
}

// arraySplitHandler turns a separated string into a list, then runs the
// step's sub-chain over it.
func arraySplitHandler(c *Context, v any, s Step) (Result, error) {
	var res Result
	switch t := v.(type) {
	case nil:
		return Result{}, nil
	case string:
		parts := strings.Split(t, s.StringArg(0, DefaultSeparator))
		list := make([]any, len(parts))
		for i, p := range parts {
			list[i] = strings.TrimSpace(p)
		}
		res = Result{Value: list, Modified: true}
	case []any:
		res = Result{Value: t}
	default:
		return c.Fallback(v, newIssue(s.Op, CodeInvalidType, nil)), nil
	}

	for _, sub := range s.Sub {
		if !splitOps[sub.Op] {
			c.Fallback(nil, newIssue(sub.Op, CodeUnsupported, map[string]string{"op": sub.Op.String()}))
			continue
		}
		list, ok := res.Value.([]any)
		if !ok {
			// Normalize may collapse an emptied list to nil.
			break
		}
		if sub.Op == Clean || sub.Op == Normalize {
			r, err := c.Apply(list, sub)
			if err != nil {
				return Result{Value: v}, wrapInfra(c.Path, sub.Op, err)
			}
			res.Value = r.Value
			res.Modified = res.Modified || r.Modified
			continue
		}
		out := make([]any, len(list))
		for i, e := range list {
			ec := c.at(i)
			r, err := ec.Apply(e, sub)
			if err != nil {
				return Result{Value: v}, wrapInfra(ec.Path, sub.Op, err)
			}
			out[i] = r.Value
			res.Modified = res.Modified || r.Modified
		}
		res.Value = out
	}
	return res, nil
}

// jsonParseHandler decodes a JSON string, or every string of a list.
func jsonParseHandler(c *Context, v any, s Step) (Result, error) {
	switch t := v.(type) {
	case nil:
		return Result{}, nil
	case string:
		out, err := decodeJSON(t)
		if err != nil {
			iss := newIssue(s.Op, CodeParseError, nil)
			iss.Cause = err
			return c.Fallback(v, iss), nil
		}
		return Result{Value: out, Modified: true}, nil
	case []any:
		res := Result{Value: make([]any, len(t))}
		out := res.Value.([]any)
		for i, e := range t {
			if _, ok := e.(string); !ok {
				out[i] = e
				continue
			}
			r, _ := jsonParseHandler(c.at(i), e, s)
			out[i] = r.Value
			res.Modified = res.Modified || r.Modified
		}
		return res, nil
	default:
		return c.Fallback(v, newIssue(s.Op, CodeInvalidType, nil)), nil
	}
}
