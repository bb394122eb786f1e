package goalter

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// Config configures an Engine.
type Config struct {
	// Container resolves callables, stores and hydrators by name. May be nil.
	Container Container
	// Logger receives fallback warnings. Defaults to slog.Default() tagged with
	// component=goalter.
	Logger Logger
	// Builtins are the free functions Call can name. Nil means Builtins();
	// pass an empty map to disable them.
	Builtins map[string]CallFunc
	// Handlers override the built-in handler of an Op.
	Handlers map[Op]Handler
}

// Engine applies AltersMaps to documents. It holds no per-call state and is
// safe for concurrent use.
type Engine struct {
	resolver *Resolver
	logger   Logger
	registry *Registry
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "goalter")
	}
	builtins := cfg.Builtins
	if builtins == nil {
		builtins = Builtins()
	}
	reg := DefaultRegistry()
	for op, h := range cfg.Handlers {
		reg = reg.With(op, h)
	}
	return &Engine{
		resolver: NewResolver(cfg.Container, builtins),
		logger:   logger,
		registry: reg,
	}
}

// Resolver returns the engine's dependency resolver.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Alter returns a copy of doc with every property of alters transformed by its
// chain. doc is a map document or a list of them; it is never modified. On an
// infra-level failure Alter returns a nil document and an *InfraError.
func (e *Engine) Alter(ctx context.Context, doc any, alters AltersMap) (any, error) {
	out, _, err := e.AlterWithReport(ctx, doc, alters)
	return out, err
}

// AlterWithReport is Alter that also returns every fallback recorded during
// the pass.
func (e *Engine) AlterWithReport(ctx context.Context, doc any, alters AltersMap) (any, Issues, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out := Clone(doc)
	if len(alters) == 0 {
		return out, nil, nil
	}
	p := &pass{
		engine:       e,
		ctx:          ctx,
		alters:       alters,
		keys:         slices.Sorted(maps.Keys(alters)),
		needOriginal: needsOriginal(alters),
	}
	res, err := p.alter(out, "/")
	if err != nil {
		return nil, p.issues, err
	}
	return res, p.issues, nil
}

// AlterValue folds chain over a single value outside any document. Map and
// Url see no document.
func (e *Engine) AlterValue(ctx context.Context, v any, chain Chain) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Context{
		Ctx:      ctx,
		Resolver: e.resolver,
		Logger:   e.logger,
		Path:     "/",
		engine:   e,
	}
	return c.fold(Clone(v), chain)
}

// pass holds the state of one Alter call.
type pass struct {
	engine       *Engine
	ctx          context.Context
	alters       AltersMap
	keys         []string
	needOriginal bool
	issues       Issues
}

func (p *pass) alter(doc any, path string) (any, error) {
	switch d := doc.(type) {
	case []any:
		for i, el := range d {
			v, err := p.alter(el, childPath(path, i))
			if err != nil {
				return nil, err
			}
			d[i] = v
		}
		return d, nil
	case map[string]any:
		return d, p.alterMap(d, path)
	default:
		return doc, nil
	}
}

func (p *pass) alterMap(doc map[string]any, path string) error {
	var original map[string]any
	if p.needOriginal {
		original = Clone(doc).(map[string]any)
	}
	for _, key := range p.keys {
		if err := p.ctx.Err(); err != nil {
			return &InfraError{Path: path, Op: Unknown, Err: err}
		}
		chain := p.alters[key]
		v, ok := GetProperty(doc, key)
		if !ok && !chain.materializes() {
			continue
		}
		c := &Context{
			Ctx:      p.ctx,
			Resolver: p.engine.resolver,
			Logger:   p.engine.logger,
			Document: original,
			Key:      key,
			Path:     childPath(path, key),
			engine:   p.engine,
			issues:   &p.issues,
		}
		res, err := c.fold(v, chain)
		if err != nil {
			return err
		}
		if !ok && res.Value == nil {
			continue
		}
		SetProperty(doc, key, res.Value)
	}
	return nil
}

func needsOriginal(alters AltersMap) bool {
	for _, chain := range alters {
		if chain.materializes() {
			return true
		}
	}
	return false
}
