package goalter

import (
	"strings"

	"github.com/reoring/goalter/internal/coerce"
)

// callHandler invokes the callable named by Args[0] as fn(v, Args[1:]...).
func callHandler(c *Context, v any, s Step) (Result, error) {
	if len(s.Args) == 0 {
		return c.Fallback(v, newIssue(s.Op, CodeEmptyArgs, nil)), nil
	}
	fn, iss, err := c.Resolver.callable(s.Args[0])
	if err != nil {
		return Result{Value: v}, err
	}
	if iss != nil {
		return c.Fallback(v, iss), nil
	}
	out, err := fn(c.Ctx, v, s.Args[1:]...)
	if err != nil {
		return Result{Value: v}, infra(ErrCall, err)
	}
	return Result{Value: out, Modified: true}, nil
}

// getHandler replaces an identifier with the document the store named by
// Args[0] holds for it, or nil when the store has none.
func getHandler(c *Context, v any, s Step) (Result, error) {
	switch t := v.(type) {
	case nil:
		return Result{}, nil
	case []any:
		res := Result{Value: make([]any, len(t))}
		out := res.Value.([]any)
		for i, e := range t {
			r, err := getHandler(c.at(i), e, s)
			if err != nil {
				return Result{Value: v}, err
			}
			out[i] = r.Value
			res.Modified = res.Modified || r.Modified
		}
		return res, nil
	case map[string]any:
		return c.Fallback(v, newIssue(s.Op, CodeInvalidType, nil)), nil
	}
	if len(s.Args) == 0 {
		return c.Fallback(v, newIssue(s.Op, CodeEmptyArgs, nil)), nil
	}
	store, iss, err := resolveService[Store](c.Resolver, s.Op, s.Args[0], "store")
	if err != nil {
		return Result{Value: v}, err
	}
	if iss != nil {
		return c.Fallback(v, iss), nil
	}
	doc, err := store.Get(c.Ctx, Criteria{Key: s.StringArg(1, DefaultKey), Value: v})
	if err != nil {
		return Result{Value: v}, infra(ErrStore, err)
	}
	if doc == nil {
		return Result{Modified: true}, nil
	}
	return Result{Value: Clone(doc), Modified: true}, nil
}

// hydrateHandler turns a map, or a list of maps, into instances of the schema
// named by Args[0].
func hydrateHandler(c *Context, v any, s Step) (Result, error) {
	switch v.(type) {
	case nil:
		return Result{}, nil
	case map[string]any, []any:
	default:
		return c.Fallback(v, newIssue(s.Op, CodeInvalidType, nil)), nil
	}
	if len(s.Args) == 0 {
		return c.Fallback(v, newIssue(s.Op, CodeEmptyArgs, nil)), nil
	}
	h, iss, err := resolveService[Hydrator](c.Resolver, s.Op, s.Args[0], "hydrator")
	if err != nil {
		return Result{Value: v}, err
	}
	if iss != nil {
		return c.Fallback(v, iss), nil
	}
	if m, ok := v.(map[string]any); ok {
		out, err := h.Hydrate(m)
		if err != nil {
			return Result{Value: v}, infra(ErrHydrate, err)
		}
		return Result{Value: out, Modified: true}, nil
	}
	list := v.([]any)
	out := make([]any, len(list))
	for i, e := range list {
		switch m := e.(type) {
		case nil:
			out[i] = nil
		case map[string]any:
			inst, err := h.Hydrate(m)
			if err != nil {
				return Result{Value: v}, wrapInfra(childPath(c.Path, i), s.Op, infra(ErrHydrate, err))
			}
			out[i] = inst
		default:
			out[i] = c.at(i).Fallback(e, newIssue(s.Op, CodeInvalidType, nil)).Value
		}
	}
	return Result{Value: out, Modified: true}, nil
}

// mapHandler derives the value from the whole document through the MapFunc
// named by Args[0].
func mapHandler(c *Context, v any, s Step) (Result, error) {
	if len(s.Args) == 0 {
		return c.Fallback(v, newIssue(s.Op, CodeEmptyArgs, nil)), nil
	}
	fn, iss, err := c.Resolver.mapCallable(s.Args[0])
	if err != nil {
		return Result{Value: v}, err
	}
	if iss != nil {
		return c.Fallback(v, iss), nil
	}
	out, err := fn(c.Ctx, MapInput{
		Document:  c.Document,
		Container: c.Container(),
		Key:       c.Key,
		Value:     v,
		Args:      s.Args[1:],
	})
	if err != nil {
		return Result{Value: v}, infra(ErrCall, err)
	}
	return Result{Value: out, Modified: true}, nil
}

// urlHandler joins the document's Args[1] property (default "id") onto the
// base path Args[0]. The result is always a string.
func urlHandler(c *Context, v any, s Step) (Result, error) {
	base := strings.TrimRight(s.StringArg(0, ""), "/")
	key := s.StringArg(1, DefaultKey)
	var doc any = c.Document
	if c.Document == nil {
		doc = v
	}
	raw, ok := GetProperty(doc, key)
	id, sok := coerce.ToString(raw)
	if !ok || !sok || id == "" {
		c.Fallback(nil, newIssue(s.Op, CodeMissingKey, map[string]string{"key": key}))
		return Result{Value: base + "/", Modified: true}, nil
	}
	return Result{Value: base + "/" + id, Modified: true}, nil
}
