package goalter

// Handler applies one step to a value. Data-level mismatches are reported
// through Context.Fallback and never returned as errors; a returned error
// aborts the whole Alter call.
type Handler func(c *Context, v any, s Step) (Result, error)

// Registry maps every Op to its handler.
type Registry struct {
	handlers [OpTotal]Handler
}

// DefaultRegistry returns a registry holding the built-in handlers.
func DefaultRegistry() *Registry {
	r := &Registry{}
	r.handlers[Call] = callHandler
	r.handlers[Clean] = cleanHandler
	r.handlers[Float] = floatHandler
	r.handlers[Get] = getHandler
	r.handlers[Hydrate] = hydrateHandler
	r.handlers[ArraySplit] = arraySplitHandler
	r.handlers[Normalize] = normalizeHandler
	r.handlers[Not] = notHandler
	r.handlers[Int] = intHandler
	r.handlers[JsonParse] = jsonParseHandler
	r.handlers[Listify] = listifyHandler
	r.handlers[Map] = mapHandler
	r.handlers[Url] = urlHandler
	r.handlers[Value] = valueHandler
	return r
}

// With returns a copy of r where op dispatches to h. Unknown ops cannot be
// rebound.
func (r *Registry) With(op Op, h Handler) *Registry {
	cp := *r
	if op.Known() && h != nil {
		cp.handlers[op] = h
	}
	return &cp
}

// Dispatch runs the handler bound to s.Op.
func (r *Registry) Dispatch(c *Context, v any, s Step) (Result, error) {
	if !s.Op.Known() || r.handlers[s.Op] == nil {
		// Unknown operations leave the value untouched.
		return Result{Value: v}, nil
	}
	return r.handlers[s.Op](c, v, s)
}
