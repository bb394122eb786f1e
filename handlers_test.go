package goalter_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	goalter "github.com/reoring/goalter"
)

func alterValue(t *testing.T, eng *goalter.Engine, v any, chain ...goalter.Step) goalter.Result {
	t.Helper()
	res, err := eng.AlterValue(context.Background(), v, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestValue_NoopWhenEqual(t *testing.T) {
	eng := newEngine(nil)
	res := alterValue(t, eng, "x", goalter.Do(goalter.Value, "x"))
	if res.Modified || res.Value != "x" {
		t.Fatalf("expected unmodified x, got %#v", res)
	}
	res = alterValue(t, eng, "y", goalter.Do(goalter.Value, "x"))
	if !res.Modified || res.Value != "x" {
		t.Fatalf("expected modified x, got %#v", res)
	}
}

func TestNot_Involution(t *testing.T) {
	eng := newEngine(nil)
	for _, b := range []bool{true, false} {
		res := alterValue(t, eng, b, goalter.Do(goalter.Not), goalter.Do(goalter.Not))
		if res.Value != b {
			t.Fatalf("not(not(%v)) = %v", b, res.Value)
		}
	}
	list := []any{true, false, true}
	res := alterValue(t, eng, list, goalter.Do(goalter.Not), goalter.Do(goalter.Not))
	if !reflect.DeepEqual(res.Value, list) {
		t.Fatalf("element-wise involution failed: %#v", res.Value)
	}
	res = alterValue(t, eng, "0", goalter.Do(goalter.Not))
	if res.Value != true || !res.Modified {
		t.Fatalf("not(\"0\") should be true, got %#v", res)
	}
}

func TestIntFloat(t *testing.T) {
	eng := newEngine(nil)
	tests := []struct {
		op       goalter.Op
		in       any
		want     any
		modified bool
	}{
		{goalter.Int, 5, 5, false},
		{goalter.Int, "42", 42, true},
		{goalter.Int, 2.9, 2, true},
		{goalter.Int, []any{"1", 2.0, true}, []any{1, 2, 1}, true},
		{goalter.Float, 1.5, 1.5, false},
		{goalter.Float, "2.5", 2.5, true},
		{goalter.Float, []any{1, "x"}, []any{1.0, 0.0}, true},
		{goalter.Float, "1e3x", 1000.0, true},
		{goalter.Float, []any{"nan", "inf", "Infinity", "1e400", "0x1p4"}, []any{0.0, 0.0, 0.0, 0.0, 0.0}, true},
		{goalter.Int, "inf", 0, true},
	}
	for _, tt := range tests {
		res := alterValue(t, eng, tt.in, goalter.Do(tt.op))
		if !reflect.DeepEqual(res.Value, tt.want) || res.Modified != tt.modified {
			t.Errorf("%s(%#v) = %#v (modified %v), want %#v (modified %v)",
				tt.op, tt.in, res.Value, res.Modified, tt.want, tt.modified)
		}
	}
	m := map[string]any{"a": 1}
	if res := alterValue(t, eng, m, goalter.Do(goalter.Int)); !reflect.DeepEqual(res.Value, m) || res.Modified {
		t.Fatalf("int on a map must be identity, got %#v", res)
	}
}

func TestArraySplitClean_RoundTrip(t *testing.T) {
	eng := newEngine(nil)
	res := alterValue(t, eng, "a;;b; ;c", goalter.Split(), goalter.Do(goalter.Clean))
	if !reflect.DeepEqual(res.Value, []any{"a", "b", "c"}) {
		t.Fatalf("got %#v", res.Value)
	}
	res = alterValue(t, eng, "a;;b; ;c", goalter.Split(goalter.Do(goalter.Clean)))
	if !reflect.DeepEqual(res.Value, []any{"a", "b", "c"}) {
		t.Fatalf("nested clean: got %#v", res.Value)
	}
}

func TestArraySplit_SeparatorAndSubOps(t *testing.T) {
	eng := newEngine(nil)
	res := alterValue(t, eng, `{"a":1}|[2]|bad`, goalter.SplitOn("|", goalter.Do(goalter.JsonParse)))
	want := []any{map[string]any{"a": 1.0}, []any{2.0}, "bad"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Fatalf("got %#v, want %#v", res.Value, want)
	}
	res = alterValue(t, eng, []any{"1", "0"}, goalter.Split(goalter.Do(goalter.Int), goalter.Do(goalter.Not)))
	if !reflect.DeepEqual(res.Value, []any{false, true}) {
		t.Fatalf("got %#v", res.Value)
	}
	// Value is not a split operation; it is skipped.
	res = alterValue(t, eng, "a", goalter.Split(goalter.Do(goalter.Value, "z")))
	if !reflect.DeepEqual(res.Value, []any{"a"}) {
		t.Fatalf("got %#v", res.Value)
	}
}

func TestClean_Map(t *testing.T) {
	eng := newEngine(nil)
	res := alterValue(t, eng, map[string]any{"a": nil, "b": "", "c": 0}, goalter.Do(goalter.Clean))
	if !reflect.DeepEqual(res.Value, map[string]any{"c": 0}) || !res.Modified {
		t.Fatalf("got %#v", res)
	}
	res = alterValue(t, eng, []any{"x"}, goalter.Do(goalter.Clean))
	if res.Modified {
		t.Fatalf("nothing dropped, must not be modified")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"  ",
		[]any{nil, "", []any{}, map[string]any{}},
		map[string]any{"a": nil, "b": map[string]any{"c": "", "d": []any{nil}}, "e": " x "},
		[]any{1, "a", []any{nil, 2}},
	}
	flags := []goalter.NormalizeFlag{
		goalter.NormalizeDefault,
		goalter.NormalizeAll,
		goalter.NormalizeNulls,
		goalter.NormalizeEmpty,
		goalter.NormalizeNulls | goalter.NormalizeReturnNull,
	}
	for _, f := range flags {
		for _, in := range inputs {
			once := goalter.NormalizeValue(in, f)
			twice := goalter.NormalizeValue(once, f)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("flag %d: normalize not idempotent on %#v: %#v then %#v", f, in, once, twice)
			}
		}
	}
}

func TestParseNormalizeFlag(t *testing.T) {
	tests := []struct {
		in   any
		want goalter.NormalizeFlag
	}{
		{nil, goalter.NormalizeDefault},
		{goalter.NormalizeTrim, goalter.NormalizeTrim},
		{5, goalter.NormalizeNulls | goalter.NormalizeTrim},
		{float64(1), goalter.NormalizeNulls},
		{0, goalter.NormalizeDefault},
		{-3, goalter.NormalizeDefault},
		{"nulls|trim", goalter.NormalizeNulls | goalter.NormalizeTrim},
		{" Empty , return_null ", goalter.NormalizeEmpty | goalter.NormalizeReturnNull},
		{"all", goalter.NormalizeAll},
		{[]any{"nulls", "empty"}, goalter.NormalizeNulls | goalter.NormalizeEmpty},
		{[]any{"trim", 7, "bogus"}, goalter.NormalizeTrim},
		{"bogus", goalter.NormalizeDefault},
		{[]any{"bogus"}, goalter.NormalizeDefault},
		{"", goalter.NormalizeDefault},
		{map[string]any{}, goalter.NormalizeDefault},
	}
	for _, tt := range tests {
		if got := goalter.ParseNormalizeFlag(tt.in); got != tt.want {
			t.Errorf("ParseNormalizeFlag(%#v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Handler(t *testing.T) {
	eng := newEngine(nil)
	in := map[string]any{"a": nil, "b": map[string]any{"c": ""}, "d": " x "}
	res := alterValue(t, eng, in, goalter.Do(goalter.Normalize, "all"))
	if !reflect.DeepEqual(res.Value, map[string]any{"d": "x"}) || !res.Modified {
		t.Fatalf("got %#v", res)
	}
	res = alterValue(t, eng, []any{nil, ""}, goalter.Do(goalter.Normalize))
	if res.Value != nil {
		t.Fatalf("emptied list should collapse to nil, got %#v", res.Value)
	}
}

func TestListify(t *testing.T) {
	eng := newEngine(nil)
	res := alterValue(t, eng, ";;;", goalter.Do(goalter.Listify, ";", "\n", "N/A"))
	if res.Value != "N/A" {
		t.Fatalf("expected default, got %#v", res.Value)
	}
	res = alterValue(t, eng, " a ; b;;c ", goalter.Do(goalter.Listify))
	if res.Value != "a\nb\nc" || !res.Modified {
		t.Fatalf("got %#v", res)
	}
	res = alterValue(t, eng, []any{"a,b", "c"}, goalter.Do(goalter.Listify, ",", ", "))
	if res.Value != "a, b, c" {
		t.Fatalf("got %#v", res.Value)
	}
	res = alterValue(t, eng, "", goalter.Do(goalter.Listify))
	if res.Value != nil {
		t.Fatalf("empty input without default should be nil, got %#v", res.Value)
	}
}

func TestJsonParse(t *testing.T) {
	eng := newEngine(nil)
	res := alterValue(t, eng, `{"a":[1,2]}`, goalter.Do(goalter.JsonParse))
	if !reflect.DeepEqual(res.Value, map[string]any{"a": []any{1.0, 2.0}}) {
		t.Fatalf("got %#v", res.Value)
	}
	res = alterValue(t, eng, "{oops", goalter.Do(goalter.JsonParse))
	if res.Value != "{oops" || res.Modified {
		t.Fatalf("malformed JSON must be left unchanged, got %#v", res)
	}
}

func TestGet_MissAndNull(t *testing.T) {
	calls := 0
	users := goalter.StoreFunc(func(_ context.Context, c goalter.Criteria) (map[string]any, error) {
		calls++
		if c.Key == "id" && c.Value == 1.0 {
			return map[string]any{"id": 1.0, "name": "ada"}, nil
		}
		return nil, nil
	})
	eng := newEngine(goalter.NewServices().Set("Users", users))

	res := alterValue(t, eng, 999.0, goalter.Do(goalter.Get, "Users"))
	if res.Value != nil {
		t.Fatalf("expected nil on miss, got %#v", res.Value)
	}
	res = alterValue(t, eng, 1.0, goalter.Do(goalter.Get, "Users"))
	if !reflect.DeepEqual(res.Value, map[string]any{"id": 1.0, "name": "ada"}) {
		t.Fatalf("expected the user, got %#v", res.Value)
	}
	calls = 0
	res = alterValue(t, eng, nil, goalter.Do(goalter.Get, "Users"))
	if res.Value != nil || calls != 0 {
		t.Fatalf("nil input must not reach the store (calls=%d)", calls)
	}
	res = alterValue(t, eng, 1.0, goalter.Do(goalter.Get, "Nope"))
	if res.Value != 1.0 {
		t.Fatalf("unresolved store must keep the value, got %#v", res.Value)
	}
}

func TestGet_StoreErrorIsInfra(t *testing.T) {
	failing := goalter.StoreFunc(func(context.Context, goalter.Criteria) (map[string]any, error) {
		return nil, errors.New("down")
	})
	eng := newEngine(goalter.NewServices().Set("users", failing))
	_, err := eng.AlterValue(context.Background(), 1, goalter.Chain{goalter.Do(goalter.Get, "users", "slug")})
	if !errors.Is(err, goalter.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}

type point struct{ X, Y float64 }

func TestHydrate(t *testing.T) {
	pt := goalter.HydratorFunc(func(m map[string]any) (any, error) {
		x, okx := m["x"].(float64)
		y, oky := m["y"].(float64)
		if !okx || !oky {
			return nil, errors.New("point needs x and y")
		}
		return point{x, y}, nil
	})
	eng := newEngine(goalter.NewServices().Set("Point", pt))

	res := alterValue(t, eng, map[string]any{"x": 1.0, "y": 2.0}, goalter.Do(goalter.Hydrate, "Point"))
	if res.Value != (point{1, 2}) {
		t.Fatalf("got %#v", res.Value)
	}
	res = alterValue(t, eng, []any{map[string]any{"x": 1.0, "y": 2.0}, nil}, goalter.Do(goalter.Hydrate, "Point"))
	if !reflect.DeepEqual(res.Value, []any{point{1, 2}, nil}) {
		t.Fatalf("got %#v", res.Value)
	}
	res = alterValue(t, eng, map[string]any{"x": 1.0}, goalter.Do(goalter.Hydrate, "Missing"))
	if !reflect.DeepEqual(res.Value, map[string]any{"x": 1.0}) || res.Modified {
		t.Fatalf("unknown schema must be a no-op, got %#v", res)
	}
	_, err := eng.AlterValue(context.Background(), map[string]any{"x": "1"}, goalter.Chain{goalter.Do(goalter.Hydrate, "Point")})
	if !errors.Is(err, goalter.ErrHydrate) {
		t.Fatalf("expected ErrHydrate, got %v", err)
	}
}

func TestCall(t *testing.T) {
	svc := goalter.NewServices().
		Set("suffix", func(v any, args ...any) any { return v.(string) + args[0].(string) }).
		Set("notfn", 42)
	eng := newEngine(svc)

	if res := alterValue(t, eng, " Ada ", goalter.Do(goalter.Call, "trim"), goalter.Do(goalter.Call, "upper")); res.Value != "ADA" {
		t.Fatalf("builtins: got %#v", res.Value)
	}
	if res := alterValue(t, eng, "a", goalter.Do(goalter.Call, "suffix", "!")); res.Value != "a!" || !res.Modified {
		t.Fatalf("container callable: got %#v", res)
	}
	if res := alterValue(t, eng, "a", goalter.Do(goalter.Call, strings.ToUpper)); res.Value != "A" {
		t.Fatalf("direct func: got %#v", res.Value)
	}
	for _, ref := range []any{"notfn", "nothing", 12} {
		if res := alterValue(t, eng, "a", goalter.Do(goalter.Call, ref)); res.Value != "a" || res.Modified {
			t.Fatalf("unresolved %v must be a no-op, got %#v", ref, res)
		}
	}
	failing := goalter.CallFunc(func(context.Context, any, ...any) (any, error) { return nil, errors.New("nope") })
	if _, err := eng.AlterValue(context.Background(), "a", goalter.Chain{goalter.Do(goalter.Call, failing)}); !errors.Is(err, goalter.ErrCall) {
		t.Fatalf("expected ErrCall, got %v", err)
	}
}

func TestMap_EmptyArgsIsNoop(t *testing.T) {
	res := alterValue(t, newEngine(nil), "v", goalter.Do(goalter.Map))
	if res.Value != "v" || res.Modified {
		t.Fatalf("got %#v", res)
	}
}

func TestUrl(t *testing.T) {
	eng := newEngine(nil)
	out, err := eng.Alter(context.Background(), []any{
		map[string]any{"id": 7.0},
		map[string]any{"slug": "paris"},
		map[string]any{},
	}, goalter.AltersMap{
		"url":  {goalter.Do(goalter.Url, "/places/")},
		"link": {goalter.Do(goalter.Url, "/p", "slug")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := out.([]any)
	if got := list[0].(map[string]any)["url"]; got != "/places/7" {
		t.Fatalf("got %#v", got)
	}
	if got := list[1].(map[string]any)["link"]; got != "/p/paris" {
		t.Fatalf("got %#v", got)
	}
	if got := list[2].(map[string]any)["url"]; got != "/places/" {
		t.Fatalf("missing id should still yield a string, got %#v", got)
	}
}
