// Package memstore is an in-memory factory.Store that records every insert.
//
// It assigns auto-increment identifiers per table, applies per-table column
// defaults and keeps an ordered call log, which makes it the store of choice
// for asserting how a builder graph was materialized.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"factory-generator/factory"
	"factory-generator/factory/internal/rowmap"
)

// DefaultIDColumn is the identifier column filled by auto-increment.
const DefaultIDColumn = "id"

// ErrInjected is a convenience error for FailOn.
var ErrInjected = errors.New("memstore: injected failure")

// Row is one stored record, keyed by column name.
type Row map[string]any

// Call is one Insert as received by the store.
type Call struct {
	Table  string
	Values factory.Values
	Row    Row
}

// Store is an in-memory factory.Store. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	tables   map[string][]Row
	nextID   map[string]int64
	idColumn map[string]string
	defaults map[string]Row
	failures map[string]error
	calls    []Call
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDColumn sets the auto-increment column of table. An empty column
// disables identifier assignment, e.g. for join tables.
func WithIDColumn(table, column string) Option {
	return func(s *Store) {
		s.idColumn[table] = column
	}
}

// WithDefaults sets column defaults applied before the inserted values.
func WithDefaults(table string, row Row) Option {
	return func(s *Store) {
		s.defaults[table] = maps.Clone(row)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tables:   make(map[string][]Row),
		nextID:   make(map[string]int64),
		idColumn: make(map[string]string),
		defaults: make(map[string]Row),
		failures: make(map[string]error),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FailOn makes every later insert into table fail with err.
func (s *Store) FailOn(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[table] = err
}

// Insert implements factory.Store.
func (s *Store) Insert(ctx context.Context, table string, values factory.Values, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failures[table]; ok {
		s.logger.DebugContext(ctx, "insert rejected", "table", table, "error", err)
		return err
	}

	row := maps.Clone(s.defaults[table])
	if row == nil {
		row = make(Row, values.Len()+1)
	}

	for _, v := range values {
		row[v.Column] = v.Value
	}

	idCol, ok := s.idColumn[table]
	if !ok {
		idCol = DefaultIDColumn
	}

	// The counter only advances once the row is accepted.
	var id int64
	if _, set := row[idCol]; idCol != "" && !set {
		id = s.nextID[table] + 1
		row[idCol] = id
	}

	if dest != nil {
		if err := rowmap.Fill(dest, row); err != nil {
			return fmt.Errorf("memstore: %s: %w", table, err)
		}
	}

	if id != 0 {
		s.nextID[table] = id
	}

	s.tables[table] = append(s.tables[table], row)
	s.calls = append(s.calls, Call{Table: table, Values: values, Row: row})

	s.logger.DebugContext(ctx, "insert", "table", table, "columns", values.Columns())

	return nil
}

// Rows returns copies of the rows stored in table, in insert order.
func (s *Store) Rows(table string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]Row, len(s.tables[table]))
	for i, r := range s.tables[table] {
		rows[i] = maps.Clone(r)
	}

	return rows
}

// Count returns the number of rows stored in table.
func (s *Store) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tables[table])
}

// Calls returns the insert log in call order.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Call(nil), s.calls...)
}

// Tables returns the table of every call, in call order.
func (s *Store) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := make([]string, len(s.calls))
	for i, c := range s.calls {
		tables[i] = c.Table
	}

	return tables
}
