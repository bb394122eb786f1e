package ir

// Package ir defines the intermediate representation the hydration code
// generator works on: the shape of a Go struct as seen from a document map.
// This package is internal and not part of the public API.

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodePrimitive NodeKind = iota
	NodeArray
	NodeObject
	NodeMap
)

// Schema is the root IR node interface.
type Schema interface {
	Kind() NodeKind
}

// Primitive represents a scalar Go field.
type Primitive struct {
	Name string // "string"|"int"|"float"|"bool"|"any"
}

func (p *Primitive) Kind() NodeKind { return NodePrimitive }

// Array represents a slice field.
type Array struct {
	Item Schema
	// Pointer is set for []*T of a nested object.
	Pointer bool
}

func (a *Array) Kind() NodeKind { return NodeArray }

// Object represents a struct type of the scanned package.
type Object struct {
	Name   string // Go type name
	Fields []Field
}

func (o *Object) Kind() NodeKind { return NodeObject }

// Map represents a map[string]any field kept as a plain subtree.
type Map struct{}

func (m *Map) Kind() NodeKind { return NodeMap }

// Field binds a document key to a Go struct field.
type Field struct {
	Name    string // document key (post tag resolution)
	GoName  string // Go struct field name
	Schema  Schema
	Pointer bool // *T field of a nested object
}

// Ref names a nested object without carrying its fields; the generator emits
// one mapping function per object and calls it by name.
func Ref(name string) *Object { return &Object{Name: name} }
