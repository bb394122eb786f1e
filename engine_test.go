package goalter_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	goalter "github.com/reoring/goalter"
)

func newEngine(c goalter.Container) *goalter.Engine {
	return goalter.New(goalter.Config{Container: c, Logger: goalter.NopLogger})
}

func TestAlter_UnknownOpIsIdentity(t *testing.T) {
	eng := newEngine(nil)
	doc := map[string]any{"a": "x", "b": []any{1.0, nil}}
	out, err := eng.Alter(context.Background(), doc, goalter.AltersMap{
		"a": {goalter.Do(goalter.Unknown)},
		"b": {goalter.Do(goalter.Op(99), "arg")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, doc) {
		t.Fatalf("expected identity, got %#v", out)
	}
}

func TestAlter_ListFanOut(t *testing.T) {
	eng := newEngine(nil)
	docs := []any{
		map[string]any{"name": "a", "score": "12"},
		map[string]any{"name": "b", "score": 3.7},
	}
	out, err := eng.Alter(context.Background(), docs, goalter.AltersMap{"score": {goalter.Do(goalter.Int)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{
		map[string]any{"name": "a", "score": 12},
		map[string]any{"name": "b", "score": 3},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %#v, want %#v", out, want)
	}
}

func TestAlter_DoesNotMutateInput(t *testing.T) {
	eng := newEngine(nil)
	doc := map[string]any{"tags": "a;b", "nested": map[string]any{"x": ""}}
	_, err := eng.Alter(context.Background(), doc, goalter.AltersMap{
		"tags":   {goalter.Split()},
		"nested": {goalter.Do(goalter.Normalize)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["tags"] != "a;b" {
		t.Fatalf("input tags mutated: %#v", doc["tags"])
	}
	if nested := doc["nested"].(map[string]any); len(nested) != 1 {
		t.Fatalf("input nested mutated: %#v", nested)
	}
}

func TestAlter_AbsentPropertySkipped(t *testing.T) {
	eng := newEngine(nil)
	out, err := eng.Alter(context.Background(), map[string]any{"a": 1}, goalter.AltersMap{
		"missing": {goalter.Do(goalter.Int)},
		"created": {goalter.Do(goalter.Value, "fresh")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := out.(map[string]any)
	if _, ok := m["missing"]; ok {
		t.Fatalf("absent property must not be created: %#v", m)
	}
	if m["created"] != "fresh" {
		t.Fatalf("value must materialize, got %#v", m["created"])
	}
}

func TestAlter_MapSeesOriginalDocument(t *testing.T) {
	svc := goalter.NewServices().Set("label", goalter.MapFunc(func(_ context.Context, in goalter.MapInput) (any, error) {
		return in.Document["first"], nil
	}))
	eng := newEngine(svc)
	out, err := eng.Alter(context.Background(), map[string]any{"first": "12"}, goalter.AltersMap{
		"first": {goalter.Do(goalter.Int)},
		"label": {goalter.Do(goalter.Map, "label")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := out.(map[string]any)
	if m["first"] != 12 || m["label"] != "12" {
		t.Fatalf("map must read the pre-alteration value, got %#v", m)
	}
}

func TestAlter_InfraErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	svc := goalter.NewServices().SetFactory("users", func() (any, error) { return nil, boom })
	eng := newEngine(svc)
	out, err := eng.Alter(context.Background(), map[string]any{"owner": 1.0}, goalter.AltersMap{
		"owner": {goalter.Do(goalter.Get, "users")},
	})
	if out != nil {
		t.Fatalf("expected no document on failure, got %#v", out)
	}
	var ie *goalter.InfraError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InfraError, got %v", err)
	}
	if ie.Path != "/owner" || ie.Op != goalter.Get {
		t.Fatalf("unexpected error location: %+v", ie)
	}
	if !errors.Is(err, goalter.ErrContainer) || !errors.Is(err, boom) {
		t.Fatalf("expected container sentinel and cause, got %v", err)
	}
}

func TestAlter_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(nil).Alter(ctx, map[string]any{"a": 1}, goalter.AltersMap{"a": {goalter.Do(goalter.Int)}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAlterWithReport_CollectsFallbacks(t *testing.T) {
	eng := newEngine(goalter.NewServices())
	_, iss, err := eng.AlterWithReport(context.Background(), []any{
		map[string]any{"owner": 1.0, "raw": "{bad"},
	}, goalter.AltersMap{
		"owner": {goalter.Do(goalter.Get, "users")},
		"raw":   {goalter.Do(goalter.JsonParse)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
	if iss[0].Path != "/0/owner" || iss[0].Code != goalter.CodeUnresolved {
		t.Fatalf("unexpected first issue: %+v", iss[0])
	}
	if iss[1].Path != "/0/raw" || iss[1].Code != goalter.CodeParseError || iss[1].Cause == nil {
		t.Fatalf("unexpected second issue: %+v", iss[1])
	}
	if iss.Error() == "" {
		t.Fatalf("expected non-empty summary")
	}
}

func TestAlterValue(t *testing.T) {
	res, err := newEngine(nil).AlterValue(context.Background(), "1;2; ;3", goalter.Chain{
		goalter.Split(goalter.Do(goalter.Clean), goalter.Do(goalter.Int)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.Value, []any{1, 2, 3}) || !res.Modified {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestConfig_HandlerOverride(t *testing.T) {
	eng := goalter.New(goalter.Config{
		Logger: goalter.NopLogger,
		Handlers: map[goalter.Op]goalter.Handler{
			goalter.Int: func(_ *goalter.Context, v any, _ goalter.Step) (goalter.Result, error) {
				return goalter.Result{Value: "overridden", Modified: true}, nil
			},
		},
	})
	res, err := eng.AlterValue(context.Background(), 1, goalter.Chain{goalter.Do(goalter.Int)})
	if err != nil || res.Value != "overridden" {
		t.Fatalf("expected override, got %#v, %v", res, err)
	}
}
