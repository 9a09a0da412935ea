package factory

import "context"

// Inserter materializes one record of type M.
type Inserter[M any] interface {
	Insert(ctx context.Context, s Store) (M, error)
}

// Factory is an Inserter whose records carry a single primary identifier.
// Only factories can be association targets.
type Factory[M any] interface {
	Inserter[M]
	IdentifierOf(m M) any
}

// Defaulter is implemented by builders that declare their default values.
type Defaulter[F any] interface {
	Default() F
}

// Defaults returns the default builder of type F: F.Default() when F
// implements Defaulter, otherwise the zero F.
func Defaults[F any]() F {
	var f F
	if d, ok := any(f).(Defaulter[F]); ok {
		return d.Default()
	}

	return f
}

// TB is the part of testing.TB used by MustInsert.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// MustInsert inserts with a background context and fails t on error.
func MustInsert[M any](t TB, in Inserter[M], s Store) M {
	t.Helper()

	m, err := in.Insert(context.Background(), s)
	if err != nil {
		t.Fatalf("factory: insert %T: %v", in, err)
	}

	return m
}
