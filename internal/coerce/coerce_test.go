package coerce

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{nil, 0, true},
		{float64(3.9), 3, true},
		{"12abc", 12, true},
		{" 42 ", 42, true},
		{"1.9", 1, true},
		{"abc", 0, true},
		{"1e3x", 1000, true},
		{"inf", 0, true},
		{"nan", 0, true},
		{"0x10", 0, true},
		{true, 1, true},
		{json.Number("7"), 7, true},
		{int64(5), 5, true},
		{[]any{1}, 0, false},
		{map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToInt(%#v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"3.5", 3.5},
		{"-2.25kg", -2.25},
		{"x", 0},
		{7, 7},
		{false, 0},
		{json.Number("1e2"), 100},
		{json.Number("1e400"), 0},
		{"1e3", 1000},
		{"1e3x", 1000},
		{"2.5E-1 m", 0.25},
		{"1e", 1},
		{"1e+", 1},
		{"1e400", 0},
		{"-1e400", 0},
		{"nan", 0},
		{"NaN", 0},
		{"inf", 0},
		{"-Infinity", 0},
		{"0x1p4", 0},
		{".5", 0.5},
	}
	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		if !ok || got != tt.want {
			t.Errorf("ToFloat(%#v) = (%v, %v), want %v", tt.in, got, ok, tt.want)
		}
	}
}

func TestToFloat_AlwaysFinite(t *testing.T) {
	for _, in := range []string{"nan", "inf", "+Inf", "Infinity", "1e999", "-1e999", "0x1p4"} {
		got, _ := ToFloat(in)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("expected a finite value for %q, got %v", in, got)
		}
		if _, err := json.Marshal(got); err != nil {
			t.Fatalf("expected %q to encode, got %v", in, err)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []any{nil, false, 0, 0.0, "", "0", []any{}, map[string]any{}}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%#v) = true, want false", v)
		}
	}
	truthy := []any{true, 1, -1.5, "a", "false", []any{nil}, map[string]any{"a": nil}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%#v) = false, want true", v)
		}
	}
}

func TestToString(t *testing.T) {
	if s, _ := ToString(float64(2)); s != "2" {
		t.Errorf("ToString(2.0) = %q", s)
	}
	if s, _ := ToString(12); s != "12" {
		t.Errorf("ToString(12) = %q", s)
	}
	if _, ok := ToString([]any{}); ok {
		t.Errorf("ToString(list) should not be ok")
	}
}
