package factory

import (
	"context"
	"errors"
)

// ErrNilStore is returned when a builder is inserted without a Store.
var ErrNilStore = errors.New("factory: nil store")

// Store inserts one row and fills dest with the stored record.
//
// Implementations report constraint or connectivity failures as errors; the
// resolver returns them to the caller unmodified.
type Store interface {
	Insert(ctx context.Context, table string, values Values, dest any) error
}

// Value is one column assignment.
type Value struct {
	Column string
	Value  any
}

// Values is an ordered column mapping. Order follows the builder declaration.
type Values []Value

// Len returns the number of columns.
func (v Values) Len() int {
	return len(v)
}

// Columns returns the column names in order.
func (v Values) Columns() []string {
	cols := make([]string, len(v))
	for i, c := range v {
		cols[i] = c.Column
	}

	return cols
}

// Args returns the column values in order.
func (v Values) Args() []any {
	args := make([]any, len(v))
	for i, c := range v {
		args[i] = c.Value
	}

	return args
}

// Get returns the value assigned to column.
func (v Values) Get(column string) (any, bool) {
	for _, c := range v {
		if c.Column == column {
			return c.Value, true
		}
	}

	return nil, false
}

// InsertInto inserts values into table and returns the stored record.
// Store errors are returned as is.
func InsertInto[M any](ctx context.Context, s Store, table string, values Values) (M, error) {
	var m M
	if s == nil {
		return m, ErrNilStore
	}

	if err := s.Insert(ctx, table, values, &m); err != nil {
		var zero M
		return zero, err
	}

	return m, nil
}
