// Package sqlstore implements factory.Store on top of database/sql.
//
// The Store writes through a Querier, so fixtures can be built inside a
// transaction the test rolls back:
//
//	tx, _ := db.BeginTx(ctx, nil)
//	defer tx.Rollback()
//	store := sqlstore.New(tx, sqlstore.Config{Dialect: sqlstore.Postgres})
//
// Drivers are not imported here; import factory/sqlstore/drivers or the
// driver of your choice.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"factory-generator/factory"
	"factory-generator/factory/internal/rowmap"
)

// DefaultIDColumn is the identifier column used to read rows back on MySQL.
const DefaultIDColumn = "id"

// pingTimeout bounds the connectivity check in Open.
const pingTimeout = 5 * time.Second

// Querier is the subset of *sql.DB, *sql.Tx and *sql.Conn used by Store.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Config configures a Store.
type Config struct {
	Dialect Dialect
	// IDColumn names the auto-increment column for the MySQL read-back.
	IDColumn string
	// Logger defaults to slog.Default() if nil.
	Logger *slog.Logger
	// SlowThreshold logs a warning for inserts slower than this. Zero disables it.
	SlowThreshold time.Duration
}

// Store is a factory.Store writing to a SQL database.
type Store struct {
	q      Querier
	cfg    Config
	logger *slog.Logger
}

var _ factory.Store = (*Store)(nil)

// New creates a Store writing through q.
func New(q Querier, cfg Config) *Store {
	if cfg.IDColumn == "" {
		cfg.IDColumn = DefaultIDColumn
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{q: q, cfg: cfg, logger: logger}
}

// Open opens a database, checks connectivity and returns a Store on it along
// with a close function. The dialect is derived from driverName.
func Open(ctx context.Context, driverName, dsn string, cfg Config) (*Store, func() error, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, errors.New("sqlstore: DSN must not be empty")
	}

	dialect, err := DialectFor(driverName)
	if err != nil {
		return nil, nil, err
	}

	if dialect == SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlstore: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlstore: ping: %w", err)
	}

	cfg.Dialect = dialect

	return New(db, cfg), db.Close, nil
}

// sqliteDSN enables foreign keys on every pooled connection unless dsn
// already sets the pragma.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "_pragma=foreign_keys(1)"
}

// WithQuerier returns a copy of s writing through q, e.g. a transaction.
func (s *Store) WithQuerier(q Querier) *Store {
	c := *s
	c.q = q

	return &c
}

// Dialect returns the configured dialect.
func (s *Store) Dialect() Dialect {
	return s.cfg.Dialect
}

// Insert implements factory.Store.
func (s *Store) Insert(ctx context.Context, table string, values factory.Values, dest any) error {
	start := time.Now()

	query := s.cfg.Dialect.insertSQL(table, values.Columns())

	var (
		row map[string]any
		err error
	)

	if s.cfg.Dialect.returning() {
		row, err = s.queryRow(ctx, query, values.Args())
	} else {
		row, err = s.insertThenSelect(ctx, table, query, values)
	}

	s.log(ctx, table, query, time.Since(start), err)

	if err != nil {
		return &Error{Table: table, Query: query, Err: err}
	}

	if dest == nil {
		return nil
	}

	if err := rowmap.Fill(dest, row); err != nil {
		return &Error{Table: table, Query: query, Err: err}
	}

	return nil
}

func (s *Store) insertThenSelect(ctx context.Context, table, query string, values factory.Values) (map[string]any, error) {
	res, err := s.q.ExecContext(ctx, query, values.Args()...)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err == nil && id != 0 {
		return s.queryRow(ctx, s.cfg.Dialect.selectByIDSQL(table, s.cfg.IDColumn), []any{id})
	}

	if values.Len() == 0 {
		return map[string]any{}, nil
	}

	return s.queryRow(ctx, s.cfg.Dialect.selectByValuesSQL(table, values.Columns()), values.Args())
}

func (s *Store) queryRow(ctx context.Context, query string, args []any) (map[string]any, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}

		return nil, ErrNoRow
	}

	row, err := scanRow(rows)
	if err != nil {
		return nil, err
	}

	return row, rows.Close()
}

func scanRow(rows *sql.Rows) (map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))

	for i := range vals {
		ptrs[i] = &vals[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, c := range cols {
		row[c] = vals[i]
	}

	return row, nil
}

func (s *Store) log(ctx context.Context, table, query string, d time.Duration, err error) {
	attrs := []any{
		slog.String("table", table),
		slog.String("query", query),
		slog.Duration("duration", d),
	}

	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "sqlstore: insert failed", append(attrs, slog.Any("error", err))...)
	case s.cfg.SlowThreshold > 0 && d > s.cfg.SlowThreshold:
		s.logger.WarnContext(ctx, "sqlstore: slow insert", attrs...)
	default:
		s.logger.DebugContext(ctx, "sqlstore: insert", attrs...)
	}
}
