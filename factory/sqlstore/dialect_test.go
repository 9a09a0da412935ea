package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_InsertSQL(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		table    string
		columns  []string
		expected string
	}{
		{
			name:     "postgres",
			dialect:  Postgres,
			table:    "users",
			columns:  []string{"name", "country_id"},
			expected: `INSERT INTO "users" ("name", "country_id") VALUES ($1, $2) RETURNING *`,
		},
		{
			name:     "postgres schema qualified",
			dialect:  Postgres,
			table:    "app.users",
			columns:  []string{"name"},
			expected: `INSERT INTO "app"."users" ("name") VALUES ($1) RETURNING *`,
		},
		{
			name:     "sqlite",
			dialect:  SQLite,
			table:    "users",
			columns:  []string{"name", "country_id"},
			expected: `INSERT INTO "users" ("name", "country_id") VALUES (?, ?) RETURNING *`,
		},
		{
			name:     "sqlite defaults only",
			dialect:  SQLite,
			table:    "countries",
			expected: `INSERT INTO "countries" DEFAULT VALUES RETURNING *`,
		},
		{
			name:     "mysql",
			dialect:  MySQL,
			table:    "users",
			columns:  []string{"name"},
			expected: "INSERT INTO `users` (`name`) VALUES (?)",
		},
		{
			name:     "mysql defaults only",
			dialect:  MySQL,
			table:    "countries",
			expected: "INSERT INTO `countries` () VALUES ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.insertSQL(tt.table, tt.columns))
		})
	}
}

func TestDialect_Quote(t *testing.T) {
	assert.Equal(t, `"we""ird"`, Postgres.quote(`we"ird`))
	assert.Equal(t, "`ty``pe`", MySQL.quote("ty`pe"))
}

func TestDialect_SelectSQL(t *testing.T) {
	assert.Equal(t, "SELECT * FROM `users` WHERE `id` = ?", MySQL.selectByIDSQL("users", "id"))
	assert.Equal(t,
		"SELECT * FROM `visits` WHERE `user_id` <=> ? AND `city_id` <=> ? LIMIT 1",
		MySQL.selectByValuesSQL("visits", []string{"user_id", "city_id"}))
}

func TestDialectFor(t *testing.T) {
	for name, want := range map[string]Dialect{
		"pgx": Postgres, "postgres": Postgres, "sqlite": SQLite, "sqlite3": SQLite, "mysql": MySQL,
	} {
		got, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := DialectFor("sqlserver")
	require.Error(t, err)

}

func TestDialect_String(t *testing.T) {
	assert.Equal(t, "postgres", Postgres.String())
	assert.Equal(t, "sqlite", SQLite.String())
	assert.Equal(t, "mysql", MySQL.String())
	assert.Equal(t, "Dialect(7)", Dialect(7).String())
	assert.Equal(t, "Dialect(-1)", Dialect(-1).String())
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"fixtures.db", "fixtures.db?_pragma=foreign_keys(1)"},
		{"file:x?mode=memory", "file:x?mode=memory&_pragma=foreign_keys(1)"},
		{"file:x?_pragma=foreign_keys(0)", "file:x?_pragma=foreign_keys(0)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.dsn), tt.dsn)
	}
}
