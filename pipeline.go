package goalter

import (
	"context"
	"errors"
)

// Context is the read-only bundle a handler receives for one property.
type Context struct {
	Ctx      context.Context
	Resolver *Resolver
	Logger   Logger
	// Document is the enclosing map as it was before this Alter pass.
	Document map[string]any
	Key      string
	Path     string

	engine *Engine
	issues *Issues
}

// Container returns the container the engine resolves names through.
func (c *Context) Container() Container { return c.Resolver.Container() }

// Fallback records iss against the current path, logs it, and returns v
// unchanged.
func (c *Context) Fallback(v any, iss *Issue) Result {
	if iss == nil {
		return Result{Value: v}
	}
	it := *iss
	if it.Path == "" {
		it.Path = c.Path
	}
	if c.issues != nil {
		*c.issues = append(*c.issues, it)
	}
	c.Logger.Warn("alteration fallback",
		"path", it.Path,
		"op", it.Op.String(),
		"code", it.Code,
		"message", it.Message,
	)
	return Result{Value: v}
}

// Apply runs one step on v under the current context.
func (c *Context) Apply(v any, s Step) (Result, error) {
	return c.engine.registry.Dispatch(c, v, s)
}

// at returns a copy of c pointed at a child path.
func (c *Context) at(token any) *Context {
	cp := *c
	cp.Path = childPath(c.Path, token)
	return &cp
}

// fold applies chain left to right. The first handler error stops the fold and
// is returned as an *InfraError naming the failing step.
func (c *Context) fold(v any, chain Chain) (Result, error) {
	res := Result{Value: v}
	for _, s := range chain {
		r, err := c.Apply(res.Value, s)
		if err != nil {
			return Result{Value: v}, wrapInfra(c.Path, s.Op, err)
		}
		res.Value = r.Value
		res.Modified = res.Modified || r.Modified
	}
	return res, nil
}

func wrapInfra(path string, op Op, err error) error {
	var ie *InfraError
	if errors.As(err, &ie) {
		return err
	}
	return &InfraError{Path: path, Op: op, Err: err}
}
