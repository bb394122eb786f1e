// Package gen renders hydration mapping functions for struct types.
//
// Generation uses text/template + go/format; the output only depends on the
// goalter/hydrate runtime helpers, never on reflection.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/reoring/goalter/internal/ir"
)

// Render emits one file holding Hydrate<T> and <T>Schema for every object.
func Render(pkg *Package) ([]byte, error) {
	data := fileData{Package: pkg.Name}
	for _, obj := range pkg.Objects {
		td := typeData{Name: obj.Name}
		for _, f := range obj.Fields {
			line, err := fieldLine(f)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", obj.Name, f.GoName, err)
			}
			td.Lines = append(td.Lines, line)
		}
		data.Types = append(data.Types, td)
	}
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}
	return formatted, nil
}

type fileData struct {
	Package string
	Types   []typeData
}

type typeData struct {
	Name  string
	Lines []line
}

// line is one statement of a mapping function; Checked statements return an
// error.
type line struct {
	Stmt    string
	Checked bool
}

func fieldLine(f ir.Field) (line, error) {
	dst := "&out." + f.GoName
	switch s := f.Schema.(type) {
	case *ir.Primitive:
		fn, ok := map[string]string{
			"string": "String",
			"int":    "Int",
			"float":  "Float",
			"bool":   "Bool",
			"any":    "Any",
		}[s.Name]
		if !ok {
			return line{}, fmt.Errorf("unknown primitive %q", s.Name)
		}
		return line{Stmt: fmt.Sprintf("hydrate.%s(m, %q, %s)", fn, f.Name, dst)}, nil
	case *ir.Map:
		return line{Stmt: fmt.Sprintf("hydrate.Map(m, %q, %s)", f.Name, dst)}, nil
	case *ir.Object:
		fn := "ObjectValue"
		if f.Pointer {
			fn = "Object"
		}
		return line{Stmt: fmt.Sprintf("hydrate.%s(m, %q, %s, Hydrate%s)", fn, f.Name, dst, s.Name), Checked: true}, nil
	case *ir.Array:
		switch it := s.Item.(type) {
		case *ir.Primitive:
			if it.Name == "string" {
				return line{Stmt: fmt.Sprintf("hydrate.Strings(m, %q, %s)", f.Name, dst)}, nil
			}
		case *ir.Object:
			fn := "Slice"
			if s.Pointer {
				fn = "PtrSlice"
			}
			return line{Stmt: fmt.Sprintf("hydrate.%s(m, %q, %s, Hydrate%s)", fn, f.Name, dst, it.Name), Checked: true}, nil
		}
		return line{}, fmt.Errorf("unsupported list item")
	default:
		return line{}, fmt.Errorf("unsupported schema %T", f.Schema)
	}
}

var fileTemplate = template.Must(template.New("hydrate").Parse(`// Code generated by goalter gen. DO NOT EDIT.

package {{.Package}}

import "github.com/reoring/goalter/hydrate"
{{range .Types}}
// {{.Name}}Schema hydrates documents into *{{.Name}}.
var {{.Name}}Schema = hydrate.For(Hydrate{{.Name}})

// Hydrate{{.Name}} fills a {{.Name}} from a document map.
func Hydrate{{.Name}}(m map[string]any) (*{{.Name}}, error) {
	var out {{.Name}}
{{- range .Lines}}
{{- if .Checked}}
	if err := {{.Stmt}}; err != nil {
		return nil, err
	}
{{- else}}
	{{.Stmt}}
{{- end}}
{{- end}}
	return &out, nil
}
{{end}}`))
