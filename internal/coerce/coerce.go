// Package coerce holds the loose scalar conversions shared by the alteration
// handlers. Conversions never fail on scalars: unparsable input collapses to the
// zero value, the way a database row column would be cast.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToInt converts a scalar to int. ok is false for maps and lists, which have no
// integer reading.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return truncate(float64(n)), true
	case float64:
		return truncate(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, _ := n.Float64()
		return truncate(f), true
	case string:
		return parseInt(n), true
	default:
		return 0, false
	}
}

// ToFloat converts a scalar to float64. ok is false for maps and lists.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, _ := n.Float64()
		return finite(f), true
	case string:
		return parseFloat(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		if i, ok := ToInt(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// Truthy reports the boolean reading of v: nil, false, zero numbers, "", "0"
// and empty containers are false.
func Truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != "" && b != "0"
	case []any:
		return len(b) > 0
	case map[string]any:
		return len(b) > 0
	default:
		if f, ok := ToFloat(v); ok {
			return f != 0
		}
		return true
	}
}

// ToString renders a scalar as text. ok is false for maps and lists.
func ToString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case []any, map[string]any:
		return "", false
	default:
		if i, ok := ToInt(v); ok {
			return strconv.Itoa(i), true
		}
		return "", false
	}
}

// IsEmpty reports whether v is nil, the empty string or an empty container.
func IsEmpty(v any) bool {
	switch c := v.(type) {
	case nil:
		return true
	case string:
		return c == ""
	case []any:
		return len(c) == 0
	case map[string]any:
		return len(c) == 0
	default:
		return false
	}
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// parseInt reads the leading integer of s ("12abc" -> 12, "1.9" -> 1, "x" -> 0).
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return truncate(parseFloat(s))
}

// parseFloat reads the leading decimal number of s, 0 when there is none or
// when it does not fit a finite float64. Only [+-]digits[.digits][e[+-]digits]
// is read, so "nan", "inf" and hex floats give 0.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return i
}
