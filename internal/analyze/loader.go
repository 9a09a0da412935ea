package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages and extracts their factory declarations.
type Loader struct {
	runtimeImport string
	dir           string
	logger        *slog.Logger
}

// NewLoader creates a Loader recognizing associations from runtimeImport.
// dir is the directory patterns are resolved in ("" for the current one).
func NewLoader(runtimeImport, dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{runtimeImport: runtimeImport, dir: dir, logger: logger}
}

// Load loads the packages matching patterns, e.g. "./internal/fixtures" or
// "factory-generator/examples/factories".
//
// Type errors are tolerated: errors in files previously written by this tool
// are ignored since those files are about to be regenerated, other type errors
// are logged. List and parse errors fail only their package: it is returned
// with Err set and no files. The error result is reserved for failures of
// the underlying go list invocation.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	out := make([]*Package, 0, len(pkgs))

	for _, pkg := range pkgs {
		generated := generatedFiles(pkg)

		var errs []error

		for _, e := range pkg.Errors {
			switch {
			case inFiles(e.Pos, generated):
				l.logger.Debug("ignoring error in generated file", "package", pkg.PkgPath, "error", e)
			case e.Kind == packages.TypeError:
				// Declarations come from syntax; hand-written code may still
				// refer to identifiers that are generated for the first time.
				l.logger.Warn("type error", "package", pkg.PkgPath, "error", e)
			default:
				errs = append(errs, e)
			}
		}

		if len(errs) > 0 {
			out = append(out, &Package{
				Path: pkg.PkgPath,
				Name: pkg.Name,
				Err:  fmt.Errorf("package errors: %v", errs),
			})

			continue
		}

		out = append(out, l.processPackage(pkg, generated))
	}

	return out, nil
}

// processPackage extracts declarations from the non-generated files of pkg.
func (l *Loader) processPackage(pkg *packages.Package, generated map[string]struct{}) *Package {
	p := &Package{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Taken: make(map[string]struct{}),
	}

	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, f := range pkg.Syntax {
		filename := pkg.Fset.File(f.Pos()).Name()
		if _, ok := generated[filename]; ok {
			continue
		}

		for _, name := range topLevelNames(f) {
			p.Taken[name] = struct{}{}
		}

		file := extractFile(pkg.Fset, f, filename, pkg.PkgPath, l.runtimeImport)
		if len(file.Declarations) == 0 {
			continue
		}

		for _, decl := range file.Declarations {
			if opt, ok := decl.Directive.Lookup("model"); ok && pkg.Types != nil {
				decl.Model = resolveModel(pkg.Types, file, opt.Value)
			}
		}

		l.logger.Debug("found declarations", "file", filename, "count", len(file.Declarations))

		p.Files = append(p.Files, file)
	}

	return p
}

func generatedFiles(pkg *packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, f := range pkg.Syntax {
		if isGeneratedByUs(f) {
			out[pkg.Fset.File(f.Pos()).Name()] = struct{}{}
		}
	}

	return out
}

// inFiles reports whether a "file:line:col" position lies in one of files.
func inFiles(pos string, files map[string]struct{}) bool {
	for name := range files {
		if strings.HasPrefix(pos, name+":") {
			return true
		}
	}

	return false
}

// resolveModel looks up the struct named by expr ("User" or "models.User")
// from the point of view of file. It returns nil when the type is unknown or
// not a struct.
func resolveModel(pkg *types.Package, file *File, expr string) *Model {
	x, err := parser.ParseExpr(expr)
	if err != nil {
		return nil
	}

	var obj types.Object

	switch e := x.(type) {
	case *ast.Ident:
		obj = pkg.Scope().Lookup(e.Name)
	case *ast.SelectorExpr:
		q, ok := e.X.(*ast.Ident)
		if !ok {
			return nil
		}

		if imported := importedPackage(pkg, file, q.Name); imported != nil {
			obj = imported.Scope().Lookup(e.Sel.Name)
		}
	}

	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil
	}

	st, ok := tn.Type().Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	qualifier := func(other *types.Package) string {
		if other == pkg {
			return ""
		}

		return other.Name()
	}

	return &Model{Name: tn.Name(), Fields: modelFields(st, qualifier)}
}

// importedPackage finds the package file refers to as name.
func importedPackage(pkg *types.Package, file *File, name string) *types.Package {
	for _, imp := range file.Imports {
		for _, candidate := range pkg.Imports() {
			if candidate.Path() != imp.Path {
				continue
			}

			if imp.Name == name || (imp.Name == "" && candidate.Name() == name) {
				return candidate
			}
		}
	}

	return nil
}

// modelFields flattens the exported fields of st, descending into embedded structs.
func modelFields(st *types.Struct, qualifier types.Qualifier) []ModelField {
	var out []ModelField

	for i := range st.NumFields() {
		f := st.Field(i)

		if f.Embedded() {
			if inner, ok := f.Type().Underlying().(*types.Struct); ok {
				out = append(out, modelFields(inner, qualifier)...)
				continue
			}
		}

		if !f.Exported() {
			continue
		}

		col, ok := ColumnName(f.Name(), reflect.StructTag(st.Tag(i)))
		if !ok {
			continue
		}

		out = append(out, ModelField{
			Name:   f.Name(),
			Column: col,
			Type:   types.TypeString(f.Type(), qualifier),
		})
	}

	return out
}
