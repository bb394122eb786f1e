package goalter

import (
	"reflect"
)

// KeyOf returns the document key of a top-level field of S, so alters can be
// keyed without repeating tag names:
//
//	alters := goalter.AltersMap{
//	    goalter.KeyOf(func(p *Place) *float64 { return &p.Rating }): {goalter.Do(goalter.Float)},
//	}
//
// It panics when selector does not return the address of an exported,
// enabled field of S.
func KeyOf[S any, F any](selector func(*S) *F) string {
	if selector == nil {
		panic("goalter.KeyOf: selector must not be nil")
	}
	var zero S
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	rv := reflect.ValueOf(&zero).Elem()
	rt := rv.Type()
	if rt.Kind() != reflect.Struct {
		panic("goalter.KeyOf: S must be a struct type")
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fv := rv.Field(i)
		if !fv.CanAddr() || fv.Addr().Pointer() != fp {
			continue
		}
		// A zero-size field shares its address with the next one.
		if fv.Type() != reflect.TypeFor[F]() {
			continue
		}
		name := ResolveStructKey(sf)
		if !sf.IsExported() || name == "" || name == "-" {
			panic("goalter.KeyOf: selected field is not exported or disabled")
		}
		return name
	}
	panic("goalter.KeyOf: selector must return the address of a top-level field of S")
}
