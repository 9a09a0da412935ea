package sqlstore

import (
	"errors"
	"fmt"
)

// ErrNoRow is returned when the database reports success but yields no row.
var ErrNoRow = errors.New("sqlstore: insert returned no row")

// Error wraps a driver failure with the statement that caused it.
type Error struct {
	Table string
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sqlstore: insert into %s: %v", e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
