package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"path"
	"sort"
	"strings"

	"factory-generator/internal/analyze"
	"factory-generator/internal/common"
	"factory-generator/internal/plan"
)

// importSpec is one import line of a generated file.
type importSpec struct {
	Alias string
	Path  string
}

// importSet maps the qualifiers used by generated code back to the imports of
// the declaring file.
type importSet struct {
	byName map[string]analyze.Import // qualifier -> declaring-file import
	used   map[importSpec]struct{}

	runtimeImport string
	// runtime is the qualifier of the runtime package, "" inside it.
	runtime string
}

func newImportSet(fileImports []analyze.Import, pkgPath, runtimeImport string) *importSet {
	s := &importSet{
		byName:        make(map[string]analyze.Import, len(fileImports)),
		used:          map[importSpec]struct{}{{Path: "context"}: {}},
		runtimeImport: runtimeImport,
	}

	for _, imp := range fileImports {
		switch imp.Name {
		case "_", ".":
			continue
		case "":
			s.byName[common.PkgAlias(imp.Path)] = imp
		default:
			s.byName[imp.Name] = imp
		}
	}

	if pkgPath == runtimeImport {
		return s
	}

	s.runtime = common.PkgAlias(runtimeImport)
	if imp, ok := s.byName[s.runtime]; ok && imp.Path != runtimeImport {
		s.runtime += "rt"
	}

	spec := importSpec{Path: runtimeImport}
	if s.runtime != path.Base(runtimeImport) {
		spec.Alias = s.runtime
	}

	s.used[spec] = struct{}{}

	return s
}

// runtimePrefix is the qualifier plus dot for runtime references.
func (s *importSet) runtimePrefix() string {
	if s.runtime == "" {
		return ""
	}

	return s.runtime + "."
}

// connection returns the Create parameter type as written in the generated
// file and records the import it needs.
func (s *importSet) connection(c plan.Connection) (string, error) {
	switch c.ImportPath {
	case "":
		return c.Type, s.use(c.Type)
	case s.runtimeImport:
		rest := strings.TrimLeft(c.Type, "*")
		stars := c.Type[:len(c.Type)-len(rest)]
		_, name, _ := strings.Cut(rest, ".")

		return stars + s.runtimePrefix() + name, nil
	default:
		s.add(c.ImportPath)

		return c.Type, nil
	}
}

// use records the imports needed by a type written in the declaring file.
func (s *importSet) use(typeText string) error {
	qualifiers, err := typeQualifiers(typeText)
	if err != nil {
		return err
	}

	for _, q := range qualifiers {
		imp, ok := s.byName[q]
		if !ok {
			return fmt.Errorf("type %s refers to package %s, which the declaring file does not import", typeText, q)
		}

		s.used[importSpec{Path: imp.Path, Alias: imp.Name}] = struct{}{}
	}

	return nil
}

// add records an import given by full path.
func (s *importSet) add(importPath string) {
	spec := importSpec{Path: importPath}
	if alias := common.PkgAlias(importPath); alias != path.Base(importPath) {
		spec.Alias = alias
	}

	s.used[spec] = struct{}{}
}

func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.used))
	for spec := range s.used {
		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}

		return out[i].Alias < out[j].Alias
	})

	return out
}

// typeQualifiers returns the package qualifiers referenced by a type
// expression, e.g. ["models", "sql"] for "map[models.ID]*sql.DB".
func typeQualifiers(typeText string) ([]string, error) {
	expr, err := parser.ParseExpr(typeText)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", typeText, err)
	}

	seen := make(map[string]struct{})

	var out []string

	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		if x, ok := sel.X.(*ast.Ident); ok {
			if _, dup := seen[x.Name]; !dup {
				seen[x.Name] = struct{}{}
				out = append(out, x.Name)
			}
		}

		return false
	})

	return out, nil
}
