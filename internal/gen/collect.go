package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	goalter "github.com/reoring/goalter"
	"github.com/reoring/goalter/internal/ir"
)

// Package is the result of scanning a directory for struct types.
type Package struct {
	Name    string
	Objects []*ir.Object
	// Skipped lists "Type.Field: reason" for fields the generator cannot map.
	Skipped []string
}

// Collect parses the non-test Go files of dir and builds an object for each
// named struct type, plus every local struct type they reference.
func Collect(dir string, types []string) (*Package, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	structs := map[string]*ast.StructType{}
	pkg := &Package{}
	for _, path := range files {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if pkg.Name == "" {
			pkg.Name = f.Name.Name
		}
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name == nil {
					continue
				}
				if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
					structs[ts.Name.Name] = st
				}
			}
		}
	}
	if pkg.Name == "" {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}

	c := &collector{structs: structs, seen: map[string]bool{}, pkg: pkg}
	for _, name := range types {
		if _, ok := structs[name]; !ok {
			return nil, fmt.Errorf("struct type %s not found in %s", name, dir)
		}
		c.visit(name)
	}
	sort.Slice(pkg.Objects, func(i, j int) bool { return pkg.Objects[i].Name < pkg.Objects[j].Name })
	return pkg, nil
}

type collector struct {
	structs map[string]*ast.StructType
	seen    map[string]bool
	pkg     *Package
}

func (c *collector) visit(name string) {
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	obj := &ir.Object{Name: name}
	c.pkg.Objects = append(c.pkg.Objects, obj)
	for _, field := range c.structs[name].Fields.List {
		if len(field.Names) == 0 {
			c.skip(name, exprString(field.Type), "embedded fields are not mapped")
			continue
		}
		var tag reflect.StructTag
		if field.Tag != nil {
			tag = reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
		}
		for _, id := range field.Names {
			if !id.IsExported() {
				continue
			}
			key := goalter.ResolveKey(id.Name, tag)
			if key == "-" {
				continue
			}
			schema, ptr, ok := c.schemaOf(field.Type)
			if !ok {
				c.skip(name, id.Name, "unsupported type "+exprString(field.Type))
				continue
			}
			obj.Fields = append(obj.Fields, ir.Field{Name: key, GoName: id.Name, Schema: schema, Pointer: ptr})
		}
	}
}

func (c *collector) skip(typ, field, reason string) {
	c.pkg.Skipped = append(c.pkg.Skipped, typ+"."+field+": "+reason)
}

// schemaOf maps a field type expression to its IR node. ptr reports a *T of a
// local struct.
func (c *collector) schemaOf(expr ast.Expr) (ir.Schema, bool, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			return &ir.Primitive{Name: "string"}, false, true
		case "int":
			return &ir.Primitive{Name: "int"}, false, true
		case "float64":
			return &ir.Primitive{Name: "float"}, false, true
		case "bool":
			return &ir.Primitive{Name: "bool"}, false, true
		case "any":
			return &ir.Primitive{Name: "any"}, false, true
		}
		if _, ok := c.structs[t.Name]; ok {
			c.visit(t.Name)
			return ir.Ref(t.Name), false, true
		}
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return &ir.Primitive{Name: "any"}, false, true
		}
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			if _, ok := c.structs[id.Name]; ok {
				c.visit(id.Name)
				return ir.Ref(id.Name), true, true
			}
		}
	case *ast.ArrayType:
		if t.Len != nil {
			return nil, false, false
		}
		item, ptr, ok := c.schemaOf(t.Elt)
		if !ok {
			return nil, false, false
		}
		switch it := item.(type) {
		case *ir.Object:
			return &ir.Array{Item: it, Pointer: ptr}, false, true
		case *ir.Primitive:
			if it.Name == "string" {
				return &ir.Array{Item: it}, false, true
			}
		}
	case *ast.MapType:
		k, kok := t.Key.(*ast.Ident)
		v, _, vok := c.schemaOf(t.Value)
		if kok && k.Name == "string" && vok {
			if p, ok := v.(*ir.Primitive); ok && p.Name == "any" {
				return &ir.Map{}, false, true
			}
		}
	}
	return nil, false, false
}

func exprString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	default:
		return fmt.Sprintf("%T", e)
	}
}
