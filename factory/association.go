package factory

import (
	"context"
	"fmt"
)

// Association is the value of a builder's association field.
//
// The zero value is Pending with the default child builder (see Defaults).
// Existing makes a Resolved association and Pending wraps an explicit child.
// An optional association field is declared as *Association; nil is Absent.
//
// An Association never changes after construction. Resolving a pending
// association inserts a copy of its child, so every copy of the owning
// builder inserts its own child row.
type Association[M any, F Factory[M]] struct {
	resolved bool
	model    *M
	factory  *F
}

// Existing returns a Resolved association referencing m. Resolving it never
// touches the Store. It panics if m is nil.
func Existing[F Factory[M], M any](m *M) Association[M, F] {
	if m == nil {
		var zero M
		panic(fmt.Sprintf("factory: Existing called with a nil *%T", zero))
	}

	return Association[M, F]{resolved: true, model: m}
}

// Pending returns an association that inserts f when resolved.
func Pending[M any, F Factory[M]](f F) Association[M, F] {
	return Association[M, F]{factory: &f}
}

// Some wraps a for an optional association field.
func Some[M any, F Factory[M]](a Association[M, F]) *Association[M, F] {
	return &a
}

// State reports whether a is Resolved or Pending.
func (a Association[M, F]) State() State {
	if a.resolved {
		return StateResolved
	}

	return StatePending
}

// Model returns the referenced record of a Resolved association.
func (a Association[M, F]) Model() (*M, bool) {
	return a.model, a.resolved
}

// Factory returns the child builder of a Pending association: the one given
// to Pending, or the default builder for a zero Association.
func (a Association[M, F]) Factory() F {
	if a.factory != nil {
		return *a.factory
	}

	return Defaults[F]()
}

// Resolve returns the identifier the parent's foreign key should hold.
// A Resolved association reads it from the record; a Pending one inserts its
// child first.
func (a Association[M, F]) Resolve(ctx context.Context, s Store) (any, error) {
	if a.resolved {
		var f F
		return f.IdentifierOf(*a.model), nil
	}

	child := a.Factory()

	m, err := child.Insert(ctx, s)
	if err != nil {
		return nil, err
	}

	return child.IdentifierOf(m), nil
}

// StateOf reports the state of an optional association field.
func StateOf[M any, F Factory[M]](a *Association[M, F]) State {
	if a == nil {
		return StateAbsent
	}

	return a.State()
}

// ResolveOptional resolves an optional association field. An absent
// association resolves to nil without touching the Store.
func ResolveOptional[M any, F Factory[M]](ctx context.Context, s Store, a *Association[M, F]) (any, error) {
	if a == nil {
		return nil, nil
	}

	return a.Resolve(ctx, s)
}
