package gen

import "text/template"

type fileData struct {
	Marker      string
	PackageName string
	Imports     []importSpec
	Builders    []builderData
}

type builderData struct {
	Name        string
	Model       string
	Table       string
	IDField     string
	NoID        bool
	Connection  string
	Constructor string // "" when the package already declares one
	RT          string // runtime qualifier with trailing dot
	Comments    bool
	Fields      []fieldData
	Columns     []fieldData
}

type fieldData struct {
	Name   string
	Title  string
	Type   string
	Column string
	Expr   string // value sent to the store

	Assoc     bool
	Optional  bool
	Model     string
	Factory   string
	Interface string
	Var       string
}

// assocData is the input of the association sub-template.
type assocData struct {
	B builderData
	F fieldData
}

var funcs = template.FuncMap{
	"pair": func(b builderData, f fieldData) assocData {
		return assocData{B: b, F: f}
	},
}

var fileTemplate = template.Must(template.New("gen").Funcs(funcs).Parse(`
{{- define "file" -}}
{{.Marker}}

package {{.PackageName}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{range .Builders}}{{template "builder" .}}{{end}}
{{- end}}

{{- define "builder"}}{{$b := .}}
{{- if .Constructor}}
{{if .Comments}}// {{.Constructor}} returns a {{.Name}} holding its default values.
{{end}}func {{.Constructor}}() {{.Name}} {
	return {{.RT}}Defaults[{{.Name}}]()
}
{{end}}
{{- range .Fields}}{{if .Assoc}}{{template "association" (pair $b .)}}{{else}}
{{if $b.Comments}}// With{{.Title}} sets {{.Name}}.
{{end}}func (f {{$b.Name}}) With{{.Title}}(v {{.Type}}) {{$b.Name}} {
	f.{{.Name}} = v

	return f
}
{{end}}{{end}}
{{if .Comments}}// Insert inserts the pending associations of f, then f itself into {{.Table}}.
{{end}}func (f {{.Name}}) Insert(ctx context.Context, s {{.RT}}Store) ({{.Model}}, error) {
{{- range .Fields}}{{if .Assoc}}
	{{.Var}}, err := {{if .Optional}}{{$b.RT}}ResolveOptional(ctx, s, f.{{.Name}}){{else}}f.{{.Name}}.Resolve(ctx, s){{end}}
	if err != nil {
		return {{$b.Model}}{}, err
	}
{{end}}{{end}}
	return {{.RT}}InsertInto[{{.Model}}](ctx, s, {{printf "%q" .Table}}, {{if .Columns}}{{.RT}}Values{
{{- range .Columns}}
		{Column: {{printf "%q" .Column}}, Value: {{.Expr}}},
{{- end}}
	}{{else}}nil{{end}})
}
{{if not .NoID}}
{{if .Comments}}// IdentifierOf returns the primary identifier of m.
{{end}}func ({{.Name}}) IdentifierOf(m {{.Model}}) any {
	return m.{{.IDField}}
}
{{end}}
{{if .Comments}}// Create inserts f and fails t on error.
{{end}}func (f {{.Name}}) Create(t {{.RT}}TB, con {{.Connection}}) {{.Model}} {
	t.Helper()

	return {{.RT}}MustInsert[{{.Model}}](t, f, con)
}
{{end}}

{{- define "association"}}{{$b := .B}}{{with .F}}
{{if $b.Comments}}// {{.Interface}} is the set of setters for {{$b.Name}}.{{.Name}}.
{{end}}type {{.Interface}} interface {
	With{{.Title}}(m *{{.Model}}) {{$b.Name}}
	With{{.Title}}Factory(child {{.Factory}}) {{$b.Name}}
{{- if .Optional}}
	Without{{.Title}}() {{$b.Name}}
{{- end}}
}

var _ {{.Interface}} = {{$b.Name}}{}

{{if $b.Comments}}// With{{.Title}} references an existing {{.Model}}; no insert happens for it.
{{end}}func (f {{$b.Name}}) With{{.Title}}(m *{{.Model}}) {{$b.Name}} {
	f.{{.Name}} = {{if .Optional}}{{$b.RT}}Some({{$b.RT}}Existing[{{.Factory}}](m)){{else}}{{$b.RT}}Existing[{{.Factory}}](m){{end}}

	return f
}

{{if $b.Comments}}// With{{.Title}}Factory makes Insert create {{.Name}} from child first.
{{end}}func (f {{$b.Name}}) With{{.Title}}Factory(child {{.Factory}}) {{$b.Name}} {
	f.{{.Name}} = {{if .Optional}}{{$b.RT}}Some({{$b.RT}}Pending[{{.Model}}](child)){{else}}{{$b.RT}}Pending[{{.Model}}](child){{end}}

	return f
}
{{if .Optional}}
{{if $b.Comments}}// Without{{.Title}} leaves {{.Name}} unset; its column is stored as NULL.
{{end}}func (f {{$b.Name}}) Without{{.Title}}() {{$b.Name}} {
	f.{{.Name}} = nil

	return f
}
{{end}}{{end}}{{end}}`))
