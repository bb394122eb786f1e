package goalter

import (
	"context"
)

// CallFunc is the callable shape the Call operation invokes:
// fn(value, args...) where args are the step arguments after the callable.
type CallFunc func(ctx context.Context, value any, args ...any) (any, error)

// Invoker is an invocable service registered in a Container.
type Invoker interface {
	Invoke(ctx context.Context, value any, args ...any) (any, error)
}

// MapInput is what a Map callable receives. Document is the document as it was
// before this Alter pass touched it.
type MapInput struct {
	Document  map[string]any
	Container Container
	Key       string
	Value     any
	Args      []any
}

// MapFunc derives a property value from the whole document.
type MapFunc func(ctx context.Context, in MapInput) (any, error)

// Resolver turns step arguments into callables and services. It never fails on
// a missing or unusable name; only a container that errors on an id it holds
// produces an error.
type Resolver struct {
	container Container
	builtins  map[string]CallFunc
}

// NewResolver builds a Resolver over c. builtins may be nil.
func NewResolver(c Container, builtins map[string]CallFunc) *Resolver {
	return &Resolver{container: c, builtins: builtins}
}

// Container returns the container the resolver looks names up in.
func (r *Resolver) Container() Container { return r.container }

// Func resolves ref to a CallFunc: Go funcs and Invokers are adapted as-is,
// strings are looked up in the builtin table and then in the container.
func (r *Resolver) Func(ref any) (CallFunc, bool, error) {
	fn, iss, err := r.callable(ref)
	return fn, fn != nil && iss == nil, err
}

// MapFunc resolves ref to a MapFunc the same way Func does.
func (r *Resolver) MapFunc(ref any) (MapFunc, bool, error) {
	fn, iss, err := r.mapCallable(ref)
	return fn, fn != nil && iss == nil, err
}

func (r *Resolver) callable(ref any) (CallFunc, *Issue, error) {
	if fn, ok := adaptCall(ref); ok {
		return fn, nil, nil
	}
	name, ok := ref.(string)
	if !ok || name == "" {
		return nil, newIssue(Call, CodeNotCallable, map[string]string{"name": describe(ref)}), nil
	}
	if fn, ok := r.builtins[name]; ok {
		return fn, nil, nil
	}
	raw, iss, err := r.lookup(Call, name)
	if iss != nil || err != nil {
		return nil, iss, err
	}
	if fn, ok := adaptCall(raw); ok {
		return fn, nil, nil
	}
	return nil, newIssue(Call, CodeNotCallable, map[string]string{"name": name}), nil
}

func (r *Resolver) mapCallable(ref any) (MapFunc, *Issue, error) {
	if fn, ok := adaptMap(ref); ok {
		return fn, nil, nil
	}
	name, ok := ref.(string)
	if !ok || name == "" {
		return nil, newIssue(Map, CodeNotCallable, map[string]string{"name": describe(ref)}), nil
	}
	raw, iss, err := r.lookup(Map, name)
	if iss != nil || err != nil {
		return nil, iss, err
	}
	if fn, ok := adaptMap(raw); ok {
		return fn, nil, nil
	}
	return nil, newIssue(Map, CodeNotCallable, map[string]string{"name": name}), nil
}

// lookup fetches name from the container; a missing entry is an issue, a
// failing Get is an infra error.
func (r *Resolver) lookup(op Op, name string) (any, *Issue, error) {
	if r.container == nil || !r.container.Has(name) {
		return nil, newIssue(op, CodeUnresolved, map[string]string{"name": name}), nil
	}
	raw, err := r.container.Get(name)
	if err != nil {
		return nil, nil, infra(ErrContainer, err)
	}
	return raw, nil, nil
}

// ResolveService resolves name to a T through r's container. A T passed
// directly as ref is returned as-is.
func ResolveService[T any](r *Resolver, ref any) (T, bool, error) {
	v, iss, err := resolveService[T](r, Unknown, ref, "service")
	return v, iss == nil && err == nil, err
}

func resolveService[T any](r *Resolver, op Op, ref any, want string) (T, *Issue, error) {
	var zero T
	if v, ok := ref.(T); ok {
		return v, nil, nil
	}
	name, ok := ref.(string)
	if !ok || name == "" {
		return zero, newIssue(op, CodeUnresolved, map[string]string{"name": describe(ref)}), nil
	}
	raw, iss, err := r.lookup(op, name)
	if iss != nil || err != nil {
		return zero, iss, err
	}
	v, ok := raw.(T)
	if !ok {
		return zero, newIssue(op, CodeWrongService, map[string]string{"name": name, "want": want}), nil
	}
	return v, nil, nil
}

func adaptCall(ref any) (CallFunc, bool) {
	switch fn := ref.(type) {
	case CallFunc:
		return fn, fn != nil
	case func(context.Context, any, ...any) (any, error):
		return fn, fn != nil
	case func(any, ...any) any:
		return func(_ context.Context, v any, args ...any) (any, error) { return fn(v, args...), nil }, fn != nil
	case func(any) any:
		return func(_ context.Context, v any, _ ...any) (any, error) { return fn(v), nil }, fn != nil
	case func(any) (any, error):
		return func(_ context.Context, v any, _ ...any) (any, error) { return fn(v) }, fn != nil
	case func(string) string:
		return func(_ context.Context, v any, _ ...any) (any, error) {
			if s, ok := v.(string); ok {
				return fn(s), nil
			}
			return v, nil
		}, fn != nil
	case Invoker:
		return fn.Invoke, fn != nil
	default:
		return nil, false
	}
}

func adaptMap(ref any) (MapFunc, bool) {
	switch fn := ref.(type) {
	case MapFunc:
		return fn, fn != nil
	case func(context.Context, MapInput) (any, error):
		return fn, fn != nil
	case func(MapInput) any:
		return func(_ context.Context, in MapInput) (any, error) { return fn(in), nil }, fn != nil
	default:
		return nil, false
	}
}

func describe(ref any) string {
	if s, ok := ref.(string); ok && s != "" {
		return s
	}
	if ref == nil {
		return "<nil>"
	}
	return "<" + typeName(ref) + ">"
}
