package goalter

import "strings"

//go:generate go tool stringer -type=Op -linecomment -output=op_string.go

// Op identifies one alteration operation.
type Op int

const (
	Unknown    Op = iota // unknown
	Call                 // call
	Clean                // clean
	Float                // float
	Get                  // get
	Hydrate              // hydrate
	ArraySplit           // array
	Normalize            // normalize
	Not                  // not
	Int                  // int
	JsonParse            // json_parse
	Listify              // listify
	Map                  // map
	Url                  // url
	Value                // value

	// OpTotal is the number of operations, Unknown included.
	OpTotal = int(iota)
)

var opByName = func() map[string]Op {
	m := make(map[string]Op, OpTotal)
	for i := 1; i < OpTotal; i++ {
		m[Op(i).String()] = Op(i)
	}
	// aliases used by older alters definitions
	m["arraysplit"] = ArraySplit
	m["array_split"] = ArraySplit
	m["jsonparse"] = JsonParse
	return m
}()

// ParseOp maps an operation name to its Op. Names are case-insensitive; an
// unrecognized name yields Unknown, which alters as identity.
func ParseOp(name string) Op {
	if op, ok := opByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return op
	}
	return Unknown
}

// Known reports whether op is one of the defined operations.
func (op Op) Known() bool { return op > Unknown && int(op) < OpTotal }

// materializes reports whether op produces a value even when the property is
// absent from the document.
func (op Op) materializes() bool {
	switch op {
	case Value, Url, Map:
		return true
	default:
		return false
	}
}
