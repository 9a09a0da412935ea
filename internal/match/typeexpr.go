package match

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"strings"
)

// TypeExpr is a parsed type expression: Named, Optional or Other.
type TypeExpr interface {
	// String renders the expression back into Go source.
	String() string
	typeExpr()
}

// Named is a (possibly qualified, possibly instantiated) named type,
// e.g. "string", "models.City" or "factory.Association[models.City, CityFactory]".
type Named struct {
	// Path holds the qualifier segments followed by the type name.
	Path []string
	// Args holds the type arguments of a generic instantiation.
	Args []TypeExpr

	expr ast.Expr
}

// Optional is the optional-value marker wrapping exactly one inner type.
// In Go source this is a pointer type.
type Optional struct {
	Inner TypeExpr

	expr ast.Expr
}

// Other is any type expression outside the grammar (maps, slices, funcs...).
type Other struct {
	expr ast.Expr
}

func (Named) typeExpr()    {}
func (Optional) typeExpr() {}
func (Other) typeExpr()    {}

// Name returns the unqualified type name.
func (n Named) Name() string {
	return n.Path[len(n.Path)-1]
}

// Qualifier returns the package qualifier, or "" for an unqualified name.
func (n Named) Qualifier() string {
	return strings.Join(n.Path[:len(n.Path)-1], ".")
}

func (n Named) String() string {
	if n.expr != nil {
		return types.ExprString(n.expr)
	}

	s := strings.Join(n.Path, ".")
	if len(n.Args) == 0 {
		return s
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}

	return s + "[" + strings.Join(args, ", ") + "]"
}

func (o Optional) String() string {
	if o.expr != nil {
		return types.ExprString(o.expr)
	}

	return "*" + o.Inner.String()
}

func (o Other) String() string {
	if o.expr == nil {
		return ""
	}

	return types.ExprString(o.expr)
}

// ParseTypeExpr converts an AST type expression into a TypeExpr tree.
func ParseTypeExpr(expr ast.Expr) TypeExpr {
	switch e := expr.(type) {
	case *ast.Ident:
		return Named{Path: []string{e.Name}, expr: e}
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			return Named{Path: []string{x.Name, e.Sel.Name}, expr: e}
		}
	case *ast.IndexExpr:
		return instantiate(e, e.X, []ast.Expr{e.Index})
	case *ast.IndexListExpr:
		return instantiate(e, e.X, e.Indices)
	case *ast.StarExpr:
		return Optional{Inner: ParseTypeExpr(e.X), expr: e}
	case *ast.ParenExpr:
		return ParseTypeExpr(e.X)
	}

	return Other{expr: expr}
}

func instantiate(expr, base ast.Expr, indices []ast.Expr) TypeExpr {
	named, ok := ParseTypeExpr(base).(Named)
	if !ok || len(named.Args) > 0 {
		return Other{expr: expr}
	}

	named.Args = make([]TypeExpr, len(indices))
	for i, idx := range indices {
		named.Args[i] = ParseTypeExpr(idx)
	}

	named.expr = expr

	return named
}

// ParseTypeString parses a type written as Go source, e.g. "models.User".
func ParseTypeString(s string) (TypeExpr, error) {
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}

	return ParseTypeExpr(expr), nil
}
