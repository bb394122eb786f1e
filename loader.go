package goalter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadAltersFile reads an alters definition from a .yaml, .yml or .json file.
func LoadAltersFile(path string) (AltersMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadAltersJSON(data)
	default:
		return LoadAltersYAML(data)
	}
}

// LoadAltersYAML decodes a YAML alters definition:
//
//	score: int
//	owner: [[get, users]]
//	tags:
//	  - op: array
//	    args: [","]
//	    sub: [clean, int]
func LoadAltersYAML(data []byte) (AltersMap, error) {
	var raw any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return AltersMap{}, nil
		}
		return nil, fmt.Errorf("alters: yaml: %w", err)
	}
	return ParseAlters(raw)
}

// LoadAltersJSON decodes a JSON alters definition with the same layout as
// LoadAltersYAML. Repeated keys are rejected, as yaml.v3 does for YAML.
func LoadAltersJSON(data []byte) (AltersMap, error) {
	if iss, err := DuplicateKeys(data, 1); err == nil && len(iss) > 0 {
		return nil, fmt.Errorf("alters: json: duplicate key at %s", iss[0].Path)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("alters: json: %w", err)
	}
	return ParseAlters(raw)
}

// ParseAlters converts a decoded definition tree into an AltersMap. Each
// property maps to a single step or a list of steps. Unknown operation names
// parse to Unknown and alter as identity.
func ParseAlters(raw any) (AltersMap, error) {
	if raw == nil {
		return AltersMap{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("alters: expected a mapping of properties, got %T", raw)
	}
	out := make(AltersMap, len(m))
	for key, def := range m {
		chain, err := ParseChain(def)
		if err != nil {
			return nil, fmt.Errorf("alters: %s: %w", key, err)
		}
		out[key] = chain
	}
	return out, nil
}

// ParseChain converts one property definition into a Chain. A bare step
// ("int", {op: int}) is a one-step chain; a list whose first element is an
// operation name with arguments ([get, users]) is also a single step.
//
// A list made only of operation names is always a chain: [value, int] is
// value | int, not value("int"). Use the mapping form {op: value, args: [int]}
// when an argument happens to spell an operation name.
func ParseChain(def any) (Chain, error) {
	switch t := def.(type) {
	case nil:
		return Chain{}, nil
	case string, map[string]any:
		s, err := ParseStep(t)
		if err != nil {
			return nil, err
		}
		return Chain{s}, nil
	case []any:
		if isInlineStep(t) {
			s, err := ParseStep(t)
			if err != nil {
				return nil, err
			}
			return Chain{s}, nil
		}
		chain := make(Chain, 0, len(t))
		for i, e := range t {
			s, err := ParseStep(e)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			chain = append(chain, s)
		}
		return chain, nil
	default:
		return nil, fmt.Errorf("unsupported chain definition %T", def)
	}
}

// ParseStep converts one step definition: "int", [get, users, id] or
// {op: get, args: [users, id]}.
func ParseStep(def any) (Step, error) {
	switch t := def.(type) {
	case string:
		return Step{Op: ParseOp(t)}, nil
	case []any:
		if len(t) == 0 {
			return Step{}, errors.New("empty step")
		}
		name, ok := t[0].(string)
		if !ok {
			return Step{}, fmt.Errorf("step name must be a string, got %T", t[0])
		}
		s := Step{Op: ParseOp(name)}
		if s.Op == ArraySplit {
			return parseSplit(s, t[1:])
		}
		s.Args = t[1:]
		return s, nil
	case map[string]any:
		name, _ := t["op"].(string)
		if name == "" {
			return Step{}, errors.New("step mapping needs an op")
		}
		s := Step{Op: ParseOp(name)}
		if args, ok := t["args"]; ok {
			list, ok := args.([]any)
			if !ok {
				list = []any{args}
			}
			s.Args = list
		}
		if sub, ok := t["sub"]; ok {
			chain, err := ParseChain(sub)
			if err != nil {
				return Step{}, fmt.Errorf("sub: %w", err)
			}
			s.Sub = chain
		}
		return s, nil
	default:
		return Step{}, fmt.Errorf("unsupported step definition %T", def)
	}
}

// parseSplit reads [array, sep?, sub...]: the rest elements that name an
// operation form the sub-chain, a leading plain string is the separator.
func parseSplit(s Step, rest []any) (Step, error) {
	for i, e := range rest {
		if str, ok := e.(string); ok && i == 0 && ParseOp(str) == Unknown {
			s.Args = []any{str}
			continue
		}
		sub, err := ParseStep(e)
		if err != nil {
			return Step{}, fmt.Errorf("sub %d: %w", i, err)
		}
		s.Sub = append(s.Sub, sub)
	}
	return s, nil
}

// isInlineStep reports whether a list is a single [name, args...] step rather
// than a list of steps: its head names an operation and some later element is
// not itself a step.
func isInlineStep(list []any) bool {
	if len(list) < 2 {
		return false
	}
	head, ok := list[0].(string)
	if !ok || ParseOp(head) == Unknown {
		return false
	}
	for _, e := range list[1:] {
		if !looksLikeStep(e) {
			return true
		}
	}
	// [array, clean, int] is a split step with a sub-chain.
	return ParseOp(head) == ArraySplit
}

func looksLikeStep(e any) bool {
	switch t := e.(type) {
	case string:
		return ParseOp(t) != Unknown
	case []any:
		if len(t) == 0 {
			return false
		}
		s, ok := t[0].(string)
		return ok && ParseOp(s) != Unknown
	case map[string]any:
		_, ok := t["op"]
		return ok
	default:
		return false
	}
}
