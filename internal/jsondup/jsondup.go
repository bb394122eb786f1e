// Package jsondup finds object keys that appear more than once in a JSON
// text. Decoding into a map keeps the last value silently; callers use this to
// warn or refuse instead.
package jsondup

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Duplicate is one repeated key. Path is the JSON Pointer of the repeated
// member, for example /0/name.
type Duplicate struct {
	Path string
	Key  string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
	path         string
}

// Detect scans data and returns its duplicate keys in document order. max > 0
// stops the scan after that many duplicates. A syntax error is returned along
// with the duplicates found before it.
func Detect(data []byte, max int) ([]Duplicate, error) {
	return DetectReader(bytes.NewReader(data), max)
}

// DetectReader is Detect over a reader; r is consumed fully.
func DetectReader(r io.Reader, max int) ([]Duplicate, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		dups  []Duplicate
		stack []frame
	)
	// valuePath returns the path of the value about to start and advances the
	// enclosing container.
	valuePath := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindArray {
			p := top.path + "/" + strconv.Itoa(top.index)
			top.index++
			return p
		}
		top.expectingKey = true
		return top.path + "/" + escape(top.key)
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return dups, io.ErrUnexpectedEOF
			}
			return dups, nil
		}
		if err != nil {
			return dups, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				p := valuePath()
				stack = append(stack, frame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true, path: p})
			case '[':
				p := valuePath()
				stack = append(stack, frame{kind: kindArray, path: p})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, seen := top.keys[v]; seen {
						dups = append(dups, Duplicate{Path: top.path + "/" + escape(v), Key: v})
						if max > 0 && len(dups) >= max {
							return dups, nil
						}
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			valuePath()
		default:
			valuePath()
		}
	}
}

func escape(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}
