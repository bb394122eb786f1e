package goalter

import (
	"context"
	"log/slog"
)

// DefaultKey is the criteria key Get uses when the step names none.
const DefaultKey = "id"

// Criteria selects one document of a Store.
type Criteria struct {
	Key   string
	Value any
}

// Store is a named document model the Get operation looks related documents
// up in. A miss is (nil, nil); an error aborts Alter.
type Store interface {
	Get(ctx context.Context, c Criteria) (map[string]any, error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, c Criteria) (map[string]any, error)

func (f StoreFunc) Get(ctx context.Context, c Criteria) (map[string]any, error) { return f(ctx, c) }

// Hydrator converts a map into an instance of a typed schema. Mapping
// functions are usually generated by `goalter gen`.
type Hydrator interface {
	Hydrate(m map[string]any) (any, error)
}

// HydratorFunc adapts a function to Hydrator.
type HydratorFunc func(m map[string]any) (any, error)

func (f HydratorFunc) Hydrate(m map[string]any) (any, error) { return f(m) }

// Logger receives fallback warnings. *slog.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// NopLogger discards every warning.
var NopLogger Logger = nopLogger{}
