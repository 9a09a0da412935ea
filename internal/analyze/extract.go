package analyze

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"factory-generator/internal/common"
)

// ParseFile parses one Go source file and extracts its declarations without
// type information. src follows go/parser.ParseFile conventions.
func ParseFile(filename string, src any, pkgPath, runtimeImport string) (*File, error) {
	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	return extractFile(fset, f, filename, pkgPath, runtimeImport), nil
}

// extractFile collects imports and factory declarations of a parsed file.
func extractFile(fset *token.FileSet, f *ast.File, filename, pkgPath, runtimeImport string) *File {
	file := &File{Path: filename}

	if pkgPath == runtimeImport {
		file.RuntimeQualifiers = append(file.RuntimeQualifiers, "")
	}

	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}

		file.Imports = append(file.Imports, imp)

		if path != runtimeImport {
			continue
		}

		switch imp.Name {
		case "_":
		case ".":
			file.RuntimeQualifiers = append(file.RuntimeQualifiers, "")
		case "":
			file.RuntimeQualifiers = append(file.RuntimeQualifiers, common.PkgAlias(path))
		default:
			file.RuntimeQualifiers = append(file.RuntimeQualifiers, imp.Name)
		}
	}

	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			groups := []*ast.CommentGroup{ts.Doc}
			if len(gd.Specs) == 1 {
				groups = append(groups, gd.Doc)
			}

			text, err := FindDirective(groups...)
			if err != nil {
				continue
			}

			file.Declarations = append(file.Declarations, extractDeclaration(fset, ts, text, file))
		}
	}

	return file
}

func extractDeclaration(fset *token.FileSet, ts *ast.TypeSpec, directive string, file *File) *Declaration {
	decl := &Declaration{
		Name:     ts.Name.Name,
		Position: fset.Position(ts.Name.Pos()).String(),
		Generic:  ts.TypeParams != nil && len(ts.TypeParams.List) > 0,
		File:     file,
	}

	if d, err := ParseDirective(directive); err != nil {
		decl.DirectiveError = err.Error()
	} else {
		decl.Directive = d
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return decl
	}

	decl.IsStruct = true

	for _, f := range st.Fields.List {
		field := Field{
			Type:     f.Type,
			TypeText: types.ExprString(f.Type),
			Position: fset.Position(f.Pos()).String(),
		}

		if f.Tag != nil {
			if tag, err := strconv.Unquote(f.Tag.Value); err == nil {
				field.Tag = reflect.StructTag(tag)
			}
		}

		if len(f.Names) == 0 {
			field.Embedded = true
			decl.Fields = append(decl.Fields, field)

			continue
		}

		for _, name := range f.Names {
			named := field
			named.Name = name.Name
			named.Position = fset.Position(name.Pos()).String()
			decl.Fields = append(decl.Fields, named)
		}
	}

	return decl
}

// isGeneratedByUs reports whether f starts with the marker this tool writes.
func isGeneratedByUs(f *ast.File) bool {
	for _, g := range f.Comments {
		if g.Pos() > f.Package {
			return false
		}

		for _, c := range g.List {
			if strings.TrimSpace(c.Text) == common.GeneratedMarker {
				return true
			}
		}
	}

	return false
}

// topLevelNames returns the package-scope identifiers declared in f.
func topLevelNames(f *ast.File) []string {
	var names []string

	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}

	return names
}
