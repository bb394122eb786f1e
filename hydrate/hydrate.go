// Package hydrate holds the runtime helpers that `goalter gen` mapping
// functions call to fill typed structs from document maps.
//
// Scalar setters are lenient: a missing key or a value of the wrong kind
// leaves the destination untouched. Nested helpers are strict about shape: a
// nested object that is not a map, or a list that is not a list, returns a
// *FieldError, which the Hydrate operation reports as an infra failure.
package hydrate

import (
	"errors"
	"fmt"
	"math"

	goalter "github.com/reoring/goalter"
)

// ErrShape marks a nested value whose kind does not match its field.
var ErrShape = errors.New("unexpected shape")

// FieldError locates a hydration failure. Nested failures chain, so the
// message reads "owner: address[1]: ...".
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// For adapts a generated mapping function to a goalter.Hydrator.
func For[T any](fn func(map[string]any) (*T, error)) goalter.HydratorFunc {
	return func(m map[string]any) (any, error) {
		v, err := fn(m)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func String(m map[string]any, key string, dst *string) {
	if s, ok := m[key].(string); ok {
		*dst = s
	}
}

// Int accepts any integral number; 2.5 is skipped, not truncated.
func Int(m map[string]any, key string, dst *int) {
	switch n := m[key].(type) {
	case int:
		*dst = n
	case int32:
		*dst = int(n)
	case int64:
		*dst = int(n)
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			*dst = int(n)
		}
	}
}

func Float(m map[string]any, key string, dst *float64) {
	switch n := m[key].(type) {
	case float64:
		*dst = n
	case float32:
		*dst = float64(n)
	case int:
		*dst = float64(n)
	case int32:
		*dst = float64(n)
	case int64:
		*dst = float64(n)
	}
}

func Bool(m map[string]any, key string, dst *bool) {
	if b, ok := m[key].(bool); ok {
		*dst = b
	}
}

// Any copies the raw value, including nil, when key is present.
func Any(m map[string]any, key string, dst *any) {
	if v, ok := m[key]; ok {
		*dst = goalter.Clone(v)
	}
}

// Strings keeps the string elements of a list.
func Strings(m map[string]any, key string, dst *[]string) {
	list, ok := goalter.Clone(m[key]).([]any)
	if !ok {
		return
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	*dst = out
}

func Map(m map[string]any, key string, dst *map[string]any) {
	if v, ok := goalter.Clone(m[key]).(map[string]any); ok {
		*dst = v
	}
}

// Object hydrates a *T field. A nil or missing value leaves dst nil.
func Object[T any](m map[string]any, key string, dst **T, fn func(map[string]any) (*T, error)) error {
	sub, ok, err := nested(m, key)
	if !ok || err != nil {
		return err
	}
	v, err := fn(sub)
	if err != nil {
		return &FieldError{Field: key, Err: err}
	}
	*dst = v
	return nil
}

// ObjectValue hydrates a T field.
func ObjectValue[T any](m map[string]any, key string, dst *T, fn func(map[string]any) (*T, error)) error {
	var p *T
	if err := Object(m, key, &p, fn); err != nil {
		return err
	}
	if p != nil {
		*dst = *p
	}
	return nil
}

// Slice hydrates a []T field. nil elements become zero values.
func Slice[T any](m map[string]any, key string, dst *[]T, fn func(map[string]any) (*T, error)) error {
	var ptrs []*T
	if err := PtrSlice(m, key, &ptrs, fn); err != nil {
		return err
	}
	if ptrs == nil {
		return nil
	}
	out := make([]T, len(ptrs))
	for i, p := range ptrs {
		if p != nil {
			out[i] = *p
		}
	}
	*dst = out
	return nil
}

// PtrSlice hydrates a []*T field. nil elements stay nil.
func PtrSlice[T any](m map[string]any, key string, dst *[]*T, fn func(map[string]any) (*T, error)) error {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return &FieldError{Field: key, Err: fmt.Errorf("%w: want list, got %T", ErrShape, raw)}
	}
	out := make([]*T, len(list))
	for i, e := range list {
		if e == nil {
			continue
		}
		sub, ok := e.(map[string]any)
		if !ok {
			return &FieldError{Field: fmt.Sprintf("%s[%d]", key, i), Err: fmt.Errorf("%w: want map, got %T", ErrShape, e)}
		}
		v, err := fn(sub)
		if err != nil {
			return &FieldError{Field: fmt.Sprintf("%s[%d]", key, i), Err: err}
		}
		out[i] = v
	}
	*dst = out
	return nil
}

func nested(m map[string]any, key string) (map[string]any, bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		return nil, false, &FieldError{Field: key, Err: fmt.Errorf("%w: want map, got %T", ErrShape, raw)}
	}
	return sub, true, nil
}
