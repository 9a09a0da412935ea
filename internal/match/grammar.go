package match

import (
	"errors"
	"fmt"
)

// AssociationName is the type name recognized as an association.
const AssociationName = "Association"

// associationArity is the number of type arguments: model and factory.
const associationArity = 2

var (
	// ErrArity is reported for an Association with the wrong number of type arguments.
	ErrArity = errors.New("association must have exactly two type arguments: model and factory")
	// ErrFactoryType is reported when the factory argument is not a named type.
	ErrFactoryType = errors.New("association factory argument must be a named type")
)

// GrammarError describes a recognized but malformed association type.
type GrammarError struct {
	Type string
	Args int
	Err  error
}

func (e *GrammarError) Error() string {
	if errors.Is(e.Err, ErrArity) {
		return fmt.Sprintf("%s: %v (got %d)", e.Type, e.Err, e.Args)
	}

	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// AssociationType is the decomposition of an association field type.
type AssociationType struct {
	// Model is the referenced record type as written, e.g. "models.City".
	Model string
	// Factory is the referenced builder type as written, e.g. "CityFactory".
	Factory string
	// FactoryBase is Factory without qualifier and type arguments.
	FactoryBase string
	// Optional reports whether the association was wrapped in one optional marker.
	Optional bool
}

// Matcher recognizes association types written under a fixed set of package
// qualifiers. The empty qualifier matches an unqualified "Association".
type Matcher struct {
	qualifiers map[string]struct{}
}

// NewMatcher creates a Matcher accepting the given qualifiers.
func NewMatcher(qualifiers ...string) *Matcher {
	m := &Matcher{qualifiers: make(map[string]struct{}, len(qualifiers))}
	for _, q := range qualifiers {
		m.qualifiers[q] = struct{}{}
	}

	return m
}

// IsAssociation reports whether t is an association type, optionally wrapped
// in exactly one optional marker. Malformed associations count as associations.
func (m *Matcher) IsAssociation(t TypeExpr) bool {
	if opt, ok := t.(Optional); ok {
		t = opt.Inner
	}

	n, ok := t.(Named)

	return ok && m.isAssociationName(n)
}

// IsNestedOptional reports whether t is an association wrapped in more than
// one optional marker. Such fields are plain fields.
func (m *Matcher) IsNestedOptional(t TypeExpr) bool {
	depth := 0

	for {
		opt, ok := t.(Optional)
		if !ok {
			break
		}

		t = opt.Inner
		depth++
	}

	n, ok := t.(Named)

	return depth > 1 && ok && m.isAssociationName(n)
}

// Decompose returns the association described by t, or nil for a plain field.
// Exactly one optional level is unwrapped before matching. A matching type with
// malformed arguments yields a *GrammarError.
func (m *Matcher) Decompose(t TypeExpr) (*AssociationType, error) {
	optional := false
	if opt, ok := t.(Optional); ok {
		t = opt.Inner
		optional = true
	}

	n, ok := t.(Named)
	if !ok || !m.isAssociationName(n) {
		return nil, nil
	}

	if len(n.Args) != associationArity {
		return nil, &GrammarError{Type: n.String(), Args: len(n.Args), Err: ErrArity}
	}

	factory, ok := n.Args[1].(Named)
	if !ok {
		return nil, &GrammarError{Type: n.String(), Args: len(n.Args), Err: ErrFactoryType}
	}

	return &AssociationType{
		Model:       n.Args[0].String(),
		Factory:     factory.String(),
		FactoryBase: factory.Name(),
		Optional:    optional,
	}, nil
}

func (m *Matcher) isAssociationName(n Named) bool {
	if n.Name() != AssociationName || len(n.Path) > 2 {
		return false
	}

	_, ok := m.qualifiers[n.Qualifier()]

	return ok
}
