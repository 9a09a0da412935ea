package analyze

import (
	"go/ast"
	"reflect"
	"slices"
)

// DirectivePrefix starts a factory directive comment line.
const DirectivePrefix = "//factory:"

// Package is a loaded package and the factory declarations it contains.
type Package struct {
	Path  string  // Import path
	Name  string  // Package name
	Dir   string  // Directory holding the package files
	Files []*File // Files with at least one declaration

	// Taken holds package-scope identifiers declared outside generated files.
	Taken map[string]struct{}

	// Err is set when the package could not be listed or parsed.
	Err error
}

// Declarations returns every declaration of the package, file by file.
func (p *Package) Declarations() []*Declaration {
	var out []*Declaration
	for _, f := range p.Files {
		out = append(out, f.Declarations...)
	}

	return out
}

// File is one source file holding factory declarations.
type File struct {
	Path         string // Absolute file name
	Imports      []Import
	Declarations []*Declaration

	// RuntimeQualifiers are the names under which the runtime package is
	// visible in this file. "" means unqualified (dot import or same package).
	RuntimeQualifiers []string
}

// Import is one import spec of a file.
type Import struct {
	Name string // Explicit name ("" when absent, "." for dot imports)
	Path string
}

// Declaration is a raw, unvalidated factory declaration.
type Declaration struct {
	Name      string    // Builder type name
	Position  string    // "file:line:col" of the type name
	Directive Directive // Options from the directive line

	// DirectiveError is set when the directive line could not be parsed.
	DirectiveError string

	Fields   []Field // Struct fields in declaration order
	IsStruct bool    // False when the directive precedes a non-struct type
	Generic  bool    // The builder declares type parameters
	Model    *Model  // Resolved model struct, nil when not loadable
	File     *File   `yaml:"-"`
}

// Directive is the parsed option list of a directive line.
type Directive struct {
	Options []Option
}

// Option is one key or key=value pair.
type Option struct {
	Key      string
	Value    string
	HasValue bool
}

// Lookup returns the option with key.
func (d Directive) Lookup(key string) (Option, bool) {
	i := slices.IndexFunc(d.Options, func(o Option) bool { return o.Key == key })
	if i < 0 {
		return Option{}, false
	}

	return d.Options[i], true
}

// Field is one builder struct field as written.
type Field struct {
	Name     string            // "" for an embedded field
	Embedded bool              // Whether the field is embedded (anonymous)
	Type     ast.Expr          `yaml:"-"`
	TypeText string            // Type rendered as Go source
	Tag      reflect.StructTag // Raw struct tag
	Position string
}

// Model describes the record struct a declaration builds.
type Model struct {
	Name   string
	Fields []ModelField
}

// ModelField is one record field with its column mapping.
type ModelField struct {
	Name   string
	Column string
	Type   string // Type rendered relative to the declaring package
}

// FieldByColumn returns the field mapped to column.
func (m *Model) FieldByColumn(column string) (ModelField, bool) {
	for _, f := range m.Fields {
		if f.Column == column {
			return f, true
		}
	}

	return ModelField{}, false
}
