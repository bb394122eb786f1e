package goalter

import (
	"fmt"
	"strings"
)

// Step is one operation of a Chain. Args are the operation's positional
// arguments; Sub is the nested chain applied by ArraySplit.
type Step struct {
	Op   Op
	Args []any
	Sub  Chain
}

// Chain is an ordered list of steps applied to one property.
type Chain []Step

// AltersMap maps a document property to the chain that alters it.
type AltersMap map[string]Chain

// Result is the outcome of one handler invocation. Modified is informational.
type Result struct {
	Value    any
	Modified bool
}

// Do builds a step for op with the given arguments.
func Do(op Op, args ...any) Step { return Step{Op: op, Args: args} }

// Split builds an ArraySplit step that applies sub to the split elements.
func Split(sub ...Step) Step { return Step{Op: ArraySplit, Sub: sub} }

// SplitOn is Split with an explicit separator.
func SplitOn(sep string, sub ...Step) Step {
	return Step{Op: ArraySplit, Args: []any{sep}, Sub: sub}
}

// Arg returns the i-th argument, or nil when absent.
func (s Step) Arg(i int) any {
	if i < 0 || i >= len(s.Args) {
		return nil
	}
	return s.Args[i]
}

// StringArg returns the i-th argument when it is a non-empty string, def otherwise.
func (s Step) StringArg(i int, def string) string {
	if v, ok := s.Arg(i).(string); ok && v != "" {
		return v
	}
	return def
}

// materializes reports whether the chain can produce a value for an absent
// property.
func (c Chain) materializes() bool {
	for _, s := range c {
		if s.Op.materializes() {
			return true
		}
	}
	return false
}

// String renders the step as op, op(args...) or op(args...){sub}.
func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Op.String())
	if len(s.Args) > 0 {
		b.WriteString("(")
		for i, a := range s.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%#v", a)
		}
		b.WriteString(")")
	}
	if len(s.Sub) > 0 {
		b.WriteString("{" + s.Sub.String() + "}")
	}
	return b.String()
}

// String renders the chain as its steps joined by " | ".
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}
