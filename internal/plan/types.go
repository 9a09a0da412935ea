package plan

import (
	"factory-generator/internal/analyze"
	"factory-generator/internal/diagnostic"
)

// Plan is the analyzed form of one package.
type Plan struct {
	Package     string                 `yaml:"package"`
	Name        string                 `yaml:"name"`
	Dir         string                 `yaml:"dir"`
	Taken       map[string]struct{}    `yaml:"-"`
	Files       []FilePlan             `yaml:"files"`
	Diagnostics diagnostic.Diagnostics `yaml:"diagnostics"`
}

// Err returns the combined declaration errors, or nil.
func (p *Plan) Err() error {
	return p.Diagnostics.Error()
}

// FilePlan holds the analyzed declarations of one source file.
type FilePlan struct {
	Source       string                `yaml:"source"`
	Imports      []analyze.Import      `yaml:"imports,omitempty"`
	Declarations []AnalyzedDeclaration `yaml:"declarations"`
}

// AnalyzedDeclaration is a validated builder declaration with defaults applied.
type AnalyzedDeclaration struct {
	Builder    string     `yaml:"builder"`
	Model      string     `yaml:"model"`
	Table      string     `yaml:"table"`
	IDName     string     `yaml:"id_name"`
	IDType     string     `yaml:"id_type"`
	IDField    string     `yaml:"id_field,omitempty"`
	NoID       bool       `yaml:"no_id,omitempty"`
	Connection Connection `yaml:"connection"`
	Fields     []Field    `yaml:"fields"`
}

// Associations returns the association fields in declaration order.
func (d *AnalyzedDeclaration) Associations() []Field {
	var out []Field
	for _, f := range d.Fields {
		if f.Kind == FieldAssociation {
			out = append(out, f)
		}
	}

	return out
}

// Columns returns the fields sent to the Store, in declaration order.
func (d *AnalyzedDeclaration) Columns() []Field {
	var out []Field
	for _, f := range d.Fields {
		if !f.Skip {
			out = append(out, f)
		}
	}

	return out
}

// Connection is the parameter type of the generated Create helper.
type Connection struct {
	// Type is the type as written in generated code, e.g. "*sqlstore.Store".
	Type string `yaml:"type"`
	// ImportPath is set when the type's package must be imported explicitly.
	ImportPath string `yaml:"import_path,omitempty"`
}

//go:generate go tool stringer -type=FieldKind -trimprefix=Field

// FieldKind classifies a builder field.
type FieldKind int

const (
	// FieldPlain holds a column value.
	FieldPlain FieldKind = iota
	// FieldAssociation references another record through a foreign key.
	FieldAssociation
)

// MarshalYAML renders the kind by name.
func (k FieldKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Field is one classified builder field.
type Field struct {
	Name string    `yaml:"name"`
	Kind FieldKind `yaml:"kind"`
	// Type is the declared Go type as written.
	Type string `yaml:"type"`
	// Column is the column (plain) or foreign-key column (association).
	Column string `yaml:"column,omitempty"`
	// Skip marks builder-only state never sent to the Store (`db:"-"`).
	Skip        bool         `yaml:"skip,omitempty"`
	Association *Association `yaml:"association,omitempty"`
}

// Association details an association field.
type Association struct {
	Model       string `yaml:"model"`
	Factory     string `yaml:"factory"`
	FactoryBase string `yaml:"factory_base"`
	Optional    bool   `yaml:"optional,omitempty"`
	// ForeignKeyOverride reports whether Column came from foreign_key_name.
	ForeignKeyOverride bool `yaml:"foreign_key_override,omitempty"`
}
