package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-generator/factory"
	"factory-generator/factory/sqlstore"
	"factory-generator/factory/sqlstore/sqltest"
)

var schema = fstest.MapFS{
	"1_init.up.sql": {Data: []byte(`
CREATE TABLE countries (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT 'Nowhere'
);
CREATE TABLE users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	country_id INTEGER REFERENCES countries (id)
);
`)},
	"1_init.down.sql": {Data: []byte(`DROP TABLE users; DROP TABLE countries;`)},
}

type country struct {
	ID   int32
	Name string
}

type user struct {
	ID        int32
	Name      string
	CountryID *int32
}

func TestStore_InsertReturning(t *testing.T) {
	_, store := sqltest.Open(t, schema)
	ctx := context.Background()

	var c country
	require.NoError(t, store.Insert(ctx, "countries", factory.Values{{Column: "name", Value: "Denmark"}}, &c))
	assert.Equal(t, country{ID: 1, Name: "Denmark"}, c)

	var u user
	require.NoError(t, store.Insert(ctx, "users", factory.Values{
		{Column: "name", Value: "Ada"},
		{Column: "country_id", Value: c.ID},
	}, &u))
	assert.Equal(t, "Ada", u.Name)
	require.NotNil(t, u.CountryID)
	assert.Equal(t, c.ID, *u.CountryID)

	var orphan user
	require.NoError(t, store.Insert(ctx, "users", factory.Values{
		{Column: "name", Value: "Bob"},
		{Column: "country_id", Value: nil},
	}, &orphan))
	assert.Nil(t, orphan.CountryID)
}

func TestStore_DefaultValues(t *testing.T) {
	_, store := sqltest.Open(t, schema)

	var c country
	require.NoError(t, store.Insert(context.Background(), "countries", nil, &c))
	assert.Equal(t, country{ID: 1, Name: "Nowhere"}, c)
}

func TestStore_ConstraintViolation(t *testing.T) {
	_, store := sqltest.Open(t, schema)

	err := store.Insert(context.Background(), "users", factory.Values{
		{Column: "name", Value: "Eve"},
		{Column: "country_id", Value: 999},
	}, &user{})
	require.Error(t, err)

	var serr *sqlstore.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "users", serr.Table)
	assert.Contains(t, serr.Query, `INSERT INTO "users"`)
}

func TestStore_WithQuerierRollsBack(t *testing.T) {
	db, store := sqltest.Open(t, schema)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, store.WithQuerier(tx).Insert(ctx, "countries", nil, &country{}))
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM countries").Scan(&n))
	assert.Zero(t, n)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := sqlstore.Open(ctx, sqltest.DriverName, sqltest.DSN(), sqlstore.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	assert.Equal(t, sqlstore.SQLite, store.Dialect())

	_, _, err = sqlstore.Open(ctx, "sqlite", " ", sqlstore.Config{})
	require.Error(t, err)

	_, _, err = sqlstore.Open(ctx, "oracle", "x", sqlstore.Config{})
	require.Error(t, err)
}

func TestOpen_SQLiteEnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixtures.db")

	db, err := sql.Open(sqltest.DriverName, path)
	require.NoError(t, err)
	require.NoError(t, sqltest.Migrate(db, schema, nil))
	require.NoError(t, db.Close())

	store, closeFn, err := sqlstore.Open(ctx, sqltest.DriverName, path, sqlstore.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	var c country
	require.NoError(t, store.Insert(ctx, "countries", nil, &c))

	for range 4 {
		err := store.Insert(ctx, "users", factory.Values{
			{Column: "name", Value: "Eve"},
			{Column: "country_id", Value: 999},
		}, &user{})
		require.Error(t, err)
	}

	var u user
	require.NoError(t, store.Insert(ctx, "users", factory.Values{
		{Column: "name", Value: "Ada"},
		{Column: "country_id", Value: c.ID},
	}, &u))
	assert.Equal(t, c.ID, *u.CountryID)
}

func TestStore_NilDestination(t *testing.T) {
	db, store := sqltest.Open(t, schema)

	require.NoError(t, store.Insert(context.Background(), "countries", nil, nil))

	var name sql.NullString
	require.NoError(t, db.QueryRow("SELECT name FROM countries").Scan(&name))
	assert.Equal(t, "Nowhere", name.String)
}
