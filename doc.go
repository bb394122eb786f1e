package goalter

// Package goalter provides:
//
// - A declarative alteration engine that rewrites document properties (rows
//   fetched from a database, payloads about to be stored) through per-property
//   chains of named operations (Alter/AlterWithReport/AlterValue)
// - Fourteen built-in operations: value, not, int, float, clean, array,
//   json_parse, normalize, listify, call, get, hydrate, map, url
// - Name resolution of callables, document stores and hydrators through an
//   injected Container, with a bundled concurrency-safe Services container
// - A fail-soft error model: data mismatches leave the value unchanged and are
//   reported as Issues; capability failures abort with an *InfraError
//
// Design policy:
// - Documents are plain trees: map[string]any is a map, []any is a list. The
//   runtime type is the only shape discriminator.
// - Alter never mutates its input; it works on a deep copy.
// - Hydration goes through generated mapping functions (cmd/goalter gen and
//   the hydrate package), not runtime reflection.
//
// Typical usage:
//
//	svc := goalter.NewServices().
//	    Set("users", memstore.New(users...)).
//	    Set("Place", hydrate.For(places.HydratePlace))
//	eng := goalter.New(goalter.Config{Container: svc})
//	alters := goalter.AltersMap{
//	    "score": {goalter.Do(goalter.Int)},
//	    "owner": {goalter.Do(goalter.Get, "users")},
//	    "tags":  {goalter.Split(goalter.Do(goalter.Clean))},
//	    "url":   {goalter.Do(goalter.Url, "/places")},
//	}
//	out, err := eng.Alter(ctx, rows, alters)
//
// Definitions can also be loaded from YAML or JSON with LoadAltersFile.
