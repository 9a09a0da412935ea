package plan

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"factory-generator/internal/analyze"
	"factory-generator/internal/common"
	"factory-generator/internal/diagnostic"
	"factory-generator/internal/match"
)

// Diagnostic codes reported by the analyzer.
const (
	CodeForeignKeyOnPlainField = "foreign_key_on_plain_field"
	CodeAssociationArity       = "association_arity"
	CodeAssociationFactory     = "association_factory"
	CodeUnnamedField           = "unnamed_field"
	CodeDuplicateColumn        = "duplicate_column"
	CodeMissingModel           = "missing_model"
	CodeUnknownOption          = "unknown_option"
	CodeInvalidOption          = "invalid_option"
	CodeIDFieldNotFound        = "id_field_not_found"
	CodeIDTypeMismatch         = "id_type_mismatch"
	CodeSetterConflict         = "setter_conflict"
	CodeNotAStruct             = "not_a_struct"
	CodeUnsupportedGeneric     = "unsupported_generic"
	CodeNestedOptional         = "nested_optional"
	CodeModelUnresolved        = "model_unresolved"
)

// Directive option keys.
const (
	OptionModel      = "model"
	OptionTable      = "table"
	OptionIDName     = "id_name"
	OptionIDType     = "id_type"
	OptionConnection = "connection"
	OptionNoID       = "no_id"
)

// TagKey is the struct tag key holding association options.
const TagKey = "factory"

// TagForeignKeyName overrides the foreign-key column of an association.
const TagForeignKeyName = "foreign_key_name"

var (
	directiveKeys = []string{OptionModel, OptionTable, OptionIDName, OptionIDType, OptionConnection, OptionNoID}
	tagKeys       = []string{TagForeignKeyName}
)

// maxSuggestions limits "did you mean" candidates per diagnostic.
const maxSuggestions = 3

// Config holds analyzer defaults.
type Config struct {
	// IDName is the identifier column used when id_name is omitted.
	IDName string
	// IDType is the identifier Go type used when id_type is omitted.
	IDType string
	// Connection is the Create parameter type used when connection is omitted,
	// in full import-path form.
	Connection string
}

// DefaultConfig returns the built-in analyzer defaults.
func DefaultConfig() Config {
	return Config{
		IDName:     "id",
		IDType:     "int32",
		Connection: "factory-generator/factory.Store",
	}
}

// Analyzer validates raw declarations and turns them into the IR.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates an Analyzer. Empty config values fall back to DefaultConfig.
func NewAnalyzer(config Config) *Analyzer {
	def := DefaultConfig()

	if config.IDName == "" {
		config.IDName = def.IDName
	}

	if config.IDType == "" {
		config.IDType = def.IDType
	}

	if config.Connection == "" {
		config.Connection = def.Connection
	}

	return &Analyzer{config: config}
}

// AnalyzePackage analyzes every declaration of pkg. Declarations with errors
// are left out of the returned plan, their problems are in Plan.Diagnostics.
func (a *Analyzer) AnalyzePackage(pkg *analyze.Package) *Plan {
	p := &Plan{
		Package: pkg.Path,
		Name:    pkg.Name,
		Dir:     pkg.Dir,
		Taken:   pkg.Taken,
	}

	for _, file := range pkg.Files {
		fp := FilePlan{
			Source:  file.Path,
			Imports: file.Imports,
		}

		for _, decl := range file.Declarations {
			analyzed, diags := a.Analyze(decl)
			p.Diagnostics.Merge(diags)

			if analyzed != nil {
				fp.Declarations = append(fp.Declarations, *analyzed)
			}
		}

		if len(fp.Declarations) > 0 {
			p.Files = append(p.Files, fp)
		}
	}

	p.checkRequiredCycles()

	return p
}

// Analyze validates one declaration. The result is nil when the declaration
// has errors.
func (a *Analyzer) Analyze(decl *analyze.Declaration) (*AnalyzedDeclaration, diagnostic.Diagnostics) {
	s := &declState{
		decl:    decl,
		matcher: matcherFor(decl),
		columns: make(map[string]string),
		setters: make(map[string]string),
	}

	out := s.run(a.config)
	s.diags.SetPosition(decl.Name, decl.Position)

	if s.diags.HasErrors() {
		return nil, s.diags
	}

	return out, s.diags
}

func matcherFor(decl *analyze.Declaration) *match.Matcher {
	if decl.File == nil {
		return match.NewMatcher("factory")
	}

	return match.NewMatcher(decl.File.RuntimeQualifiers...)
}

// declState carries the bookkeeping of one Analyze call.
type declState struct {
	decl    *analyze.Declaration
	matcher *match.Matcher
	diags   diagnostic.Diagnostics
	columns map[string]string // column -> field
	setters map[string]string // setter -> field
}

func (s *declState) run(config Config) *AnalyzedDeclaration {
	decl := s.decl

	if decl.DirectiveError != "" {
		s.errorf(CodeInvalidOption, "", "invalid directive: %s", decl.DirectiveError)

		return nil
	}

	if !decl.IsStruct {
		s.errorf(CodeNotAStruct, "", "factory directive must precede a struct type")

		return nil
	}

	if decl.Generic {
		s.errorf(CodeUnsupportedGeneric, "", "builder %s must not declare type parameters", decl.Name)
	}

	out := &AnalyzedDeclaration{
		Builder: decl.Name,
		IDName:  config.IDName,
		IDType:  config.IDType,
	}

	modelName := s.applyOptions(out, config)
	if out.Model == "" {
		return out
	}

	if out.Table == "" {
		out.Table = common.Pluralize(common.SnakeCase(modelName))
	}

	s.resolveIDField(out)

	for _, f := range decl.Fields {
		if field, ok := s.analyzeField(f, out.IDName); ok {
			out.Fields = append(out.Fields, field)
		}
	}

	return out
}

// applyOptions copies directive options into out and returns the bare model
// type name.
func (s *declState) applyOptions(out *AnalyzedDeclaration, config Config) string {
	seen := make(map[string]struct{}, len(s.decl.Directive.Options))
	connection := config.Connection

	for _, opt := range s.decl.Directive.Options {
		if _, dup := seen[opt.Key]; dup {
			s.errorf(CodeInvalidOption, "", "option %q given more than once", opt.Key)

			continue
		}

		seen[opt.Key] = struct{}{}

		if opt.Key != OptionNoID && !opt.HasValue && slices.Contains(directiveKeys, opt.Key) {
			s.errorf(CodeInvalidOption, "", "option %q requires a value", opt.Key)

			continue
		}

		switch opt.Key {
		case OptionModel:
			out.Model = opt.Value
		case OptionTable:
			out.Table = opt.Value
		case OptionIDName:
			out.IDName = opt.Value
		case OptionIDType:
			out.IDType = opt.Value
		case OptionConnection:
			connection = opt.Value
		case OptionNoID:
			s.applyNoID(out, opt)
		default:
			s.diags.AddErrorWithSuggestions(CodeUnknownOption,
				fmt.Sprintf("unknown directive option %q", opt.Key), s.decl.Name, "",
				match.Suggest(opt.Key, directiveKeys, maxSuggestions))
		}
	}

	if out.IDType != "" {
		if _, err := match.ParseTypeString(out.IDType); err != nil {
			s.errorf(CodeInvalidOption, "", "id_type: %v", err)
		}
	}

	conn, err := ParseConnection(connection)
	if err != nil {
		s.errorf(CodeInvalidOption, "", "connection: %v", err)
	}

	out.Connection = conn

	if out.Model == "" {
		s.errorf(CodeMissingModel, "", "factory directive has no %q option", OptionModel)

		return ""
	}

	t, err := match.ParseTypeString(out.Model)
	if err != nil {
		s.errorf(CodeInvalidOption, "", "model: %v", err)

		return out.Model
	}

	named, ok := t.(match.Named)
	if !ok || len(named.Args) > 0 {
		s.errorf(CodeInvalidOption, "", "model %q must be a named, non-generic type", out.Model)

		return out.Model
	}

	return named.Name()
}

func (s *declState) applyNoID(out *AnalyzedDeclaration, opt analyze.Option) {
	if !opt.HasValue {
		out.NoID = true

		return
	}

	v, err := strconv.ParseBool(opt.Value)
	if err != nil {
		s.errorf(CodeInvalidOption, "", "no_id: %q is not a boolean", opt.Value)

		return
	}

	out.NoID = v
}

// resolveIDField finds the model field holding the identifier.
func (s *declState) resolveIDField(out *AnalyzedDeclaration) {
	if out.NoID {
		return
	}

	model := s.decl.Model
	if model == nil {
		out.IDField = common.GoName(out.IDName)
		s.diags.AddWarning(CodeModelUnresolved,
			fmt.Sprintf("model %s could not be loaded; assuming identifier field %s", out.Model, out.IDField),
			s.decl.Name, "")

		return
	}

	field, ok := model.FieldByColumn(out.IDName)
	if !ok {
		s.errorf(CodeIDFieldNotFound, "", "model %s has no field for column %q", out.Model, out.IDName)

		return
	}

	out.IDField = field.Name

	if field.Type != out.IDType {
		s.errorf(CodeIDTypeMismatch, field.Name,
			"model %s identifier %s has type %s, id_type is %s", out.Model, field.Name, field.Type, out.IDType)
	}
}

func (s *declState) analyzeField(f analyze.Field, idName string) (Field, bool) {
	if f.Embedded || f.Name == "" || f.Name == "_" {
		s.errorf(CodeUnnamedField, f.TypeText, "builder fields must be named (found %s)", f.TypeText)

		return Field{}, false
	}

	texpr := match.ParseTypeExpr(f.Type)

	fkName, hasFK := s.tagOptions(f)

	assoc, err := s.matcher.Decompose(texpr)
	if err != nil {
		code := CodeAssociationArity
		if !isArity(err) {
			code = CodeAssociationFactory
		}

		s.errorf(code, f.Name, "%v", err)

		return Field{}, false
	}

	if assoc == nil {
		return s.plainField(f, texpr, hasFK)
	}

	column := common.SnakeCase(f.Name) + "_" + idName
	if hasFK {
		column = fkName
	}

	if _, ok := f.Tag.Lookup("db"); ok {
		s.errorf(CodeInvalidOption, f.Name, "db tag is not allowed on association fields; use %s", TagForeignKeyName)
	}

	s.claimColumn(column, f.Name)

	setter := "With" + common.Capitalize(f.Name)
	s.claimSetter(setter, f.Name)
	s.claimSetter(setter+"Factory", f.Name)

	if assoc.Optional {
		s.claimSetter("Without"+common.Capitalize(f.Name), f.Name)
	}

	return Field{
		Name:   f.Name,
		Kind:   FieldAssociation,
		Type:   f.TypeText,
		Column: column,
		Association: &Association{
			Model:              assoc.Model,
			Factory:            assoc.Factory,
			FactoryBase:        assoc.FactoryBase,
			Optional:           assoc.Optional,
			ForeignKeyOverride: hasFK,
		},
	}, true
}

func (s *declState) plainField(f analyze.Field, texpr match.TypeExpr, hasFK bool) (Field, bool) {
	if hasFK {
		s.errorf(CodeForeignKeyOnPlainField, f.Name,
			"%s is only valid on association fields; %s has type %s", TagForeignKeyName, f.Name, f.TypeText)

		return Field{}, false
	}

	if s.matcher.IsNestedOptional(texpr) {
		s.diags.AddWarning(CodeNestedOptional,
			fmt.Sprintf("%s is wrapped in more than one pointer and is treated as a plain field", f.TypeText),
			s.decl.Name, f.Name)
	}

	column, send := analyze.ColumnName(f.Name, f.Tag)
	if send {
		s.claimColumn(column, f.Name)
	}

	s.claimSetter("With"+common.Capitalize(f.Name), f.Name)

	return Field{
		Name:   f.Name,
		Kind:   FieldPlain,
		Type:   f.TypeText,
		Column: column,
		Skip:   !send,
	}, true
}

// tagOptions parses the factory struct tag, reporting unknown keys.
func (s *declState) tagOptions(f analyze.Field) (string, bool) {
	raw, ok := f.Tag.Lookup(TagKey)
	if !ok {
		return "", false
	}

	var (
		fkName string
		hasFK  bool
	)

	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		key, value, _ := strings.Cut(part, "=")

		switch key {
		case TagForeignKeyName:
			if value == "" {
				s.errorf(CodeInvalidOption, f.Name, "%s requires a column name", TagForeignKeyName)

				continue
			}

			fkName, hasFK = value, true
		default:
			s.diags.AddErrorWithSuggestions(CodeUnknownOption,
				fmt.Sprintf("unknown %s tag option %q", TagKey, key), s.decl.Name, f.Name,
				match.Suggest(key, tagKeys, maxSuggestions))
		}
	}

	return fkName, hasFK
}

func (s *declState) claimColumn(column, field string) {
	if prev, ok := s.columns[column]; ok {
		s.errorf(CodeDuplicateColumn, field, "column %q is used by both %s and %s", column, prev, field)

		return
	}

	s.columns[column] = field
}

func (s *declState) claimSetter(setter, field string) {
	if prev, ok := s.setters[setter]; ok {
		s.errorf(CodeSetterConflict, field, "setter %s is generated for both %s and %s", setter, prev, field)

		return
	}

	s.setters[setter] = field
}

func (s *declState) errorf(code, field, format string, args ...any) {
	s.diags.AddError(code, fmt.Sprintf(format, args...), s.decl.Name, field)
}

func isArity(err error) bool {
	var gerr *match.GrammarError

	return errors.As(err, &gerr) && errors.Is(gerr.Err, match.ErrArity)
}

// ParseConnection parses a connection option. The type is either written as
// in the declaring file ("*sqlstore.Store") or with a full import path
// ("*example.com/app/sqlstore.Store"), in which case the generated file
// imports that path.
func ParseConnection(value string) (Connection, error) {
	rest := strings.TrimLeft(value, "*")
	stars := value[:len(value)-len(rest)]

	if i := strings.LastIndex(rest, "/"); i >= 0 {
		dot := strings.Index(rest[i:], ".")
		if dot < 0 {
			return Connection{}, fmt.Errorf("%q has an import path but no type name", value)
		}

		path, name := rest[:i+dot], rest[i+dot+1:]
		typ := stars + common.PkgAlias(path) + "." + name

		if _, err := match.ParseTypeString(typ); err != nil {
			return Connection{}, err
		}

		return Connection{Type: typ, ImportPath: path}, nil
	}

	if _, err := match.ParseTypeString(value); err != nil {
		return Connection{}, err
	}

	return Connection{Type: value}, nil
}
