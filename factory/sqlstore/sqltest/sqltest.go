// Package sqltest opens throwaway SQLite databases for fixture tests.
//
// Every call gets its own shared-cache in-memory database, named with a
// random UUID, so parallel tests never see each other's rows. The schema is
// built by running golang-migrate migrations from an fs.FS.
package sqltest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"factory-generator/factory/sqlstore"
)

// DriverName is the database/sql driver used for test databases.
const DriverName = "sqlite"

// DSN returns a fresh in-memory database DSN with foreign keys enabled.
func DSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
}

// Open creates an isolated database, applies the *.up.sql migrations found at
// the root of migrations (nil skips them) and returns it with a Store on top.
// The database is closed when the test ends.
func Open(t testing.TB, migrations fs.FS) (*sql.DB, *sqlstore.Store) {
	t.Helper()

	db, err := sql.Open(DriverName, DSN())
	if err != nil {
		t.Fatalf("sqltest: open: %v", err)
	}

	// The in-memory database lives as long as one connection stays open.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	t.Cleanup(func() { _ = db.Close() })

	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("sqltest: ping: %v", err)
	}

	if migrations != nil {
		if err := Migrate(db, migrations, testLogger{t}); err != nil {
			t.Fatalf("sqltest: %v", err)
		}
	}

	return db, sqlstore.New(db, sqlstore.Config{Dialect: sqlstore.SQLite})
}

// Migrate applies all up migrations in migrations to db. The logger may be nil.
func Migrate(db *sql.DB, migrations fs.FS, logger migrate.Logger) error {
	src, err := iofs.New(migrations, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, DriverName, driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}

	// m.Close would close db through the driver; only release the source.
	defer src.Close()

	m.Log = logger

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	return nil
}

type testLogger struct {
	t testing.TB
}

func (l testLogger) Printf(format string, v ...any) {
	l.t.Logf("migrate: "+strings.TrimSuffix(format, "\n"), v...)
}

func (testLogger) Verbose() bool {
	return false
}
