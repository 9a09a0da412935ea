package sqlstore

//go:generate go tool stringer -type=Dialect -linecomment

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder style, identifier quoting and how the inserted
// row is read back.
type Dialect int

const (
	// Postgres uses $n placeholders and INSERT ... RETURNING *.
	Postgres Dialect = iota // postgres
	// SQLite uses ? placeholders and INSERT ... RETURNING * (SQLite 3.35+).
	SQLite // sqlite
	// MySQL uses ? placeholders and reads the row back by LAST_INSERT_ID().
	MySQL // mysql
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	default:
		return 0, fmt.Errorf("sqlstore: no dialect for driver %q", driverName)
	}
}

func (d Dialect) placeholder(i int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(i)
	}

	return "?"
}

// quote quotes each dot-separated part of an identifier.
func (d Dialect) quote(ident string) string {
	q := `"`
	if d == MySQL {
		q = "`"
	}

	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}

	return strings.Join(parts, ".")
}

// returning reports whether INSERT ... RETURNING is available.
func (d Dialect) returning() bool {
	return d != MySQL
}

// insertSQL builds the INSERT statement for columns, in order.
func (d Dialect) insertSQL(table string, columns []string) string {
	var b strings.Builder

	b.WriteString("INSERT INTO ")
	b.WriteString(d.quote(table))

	switch {
	case len(columns) == 0 && d == MySQL:
		b.WriteString(" () VALUES ()")
	case len(columns) == 0:
		b.WriteString(" DEFAULT VALUES")
	default:
		cols := make([]string, len(columns))
		phs := make([]string, len(columns))

		for i, c := range columns {
			cols[i] = d.quote(c)
			phs[i] = d.placeholder(i + 1)
		}

		b.WriteString(" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(phs, ", ") + ")")
	}

	if d.returning() {
		b.WriteString(" RETURNING *")
	}

	return b.String()
}

// selectByIDSQL reads back a row by its identifier column.
func (d Dialect) selectByIDSQL(table, idColumn string) string {
	return "SELECT * FROM " + d.quote(table) + " WHERE " + d.quote(idColumn) + " = " + d.placeholder(1)
}

// selectByValuesSQL reads back a row without identifier by matching every
// inserted column with MySQL's NULL-safe equality.
func (d Dialect) selectByValuesSQL(table string, columns []string) string {
	conds := make([]string, len(columns))
	for i, c := range columns {
		conds[i] = d.quote(c) + " <=> " + d.placeholder(i+1)
	}

	return "SELECT * FROM " + d.quote(table) + " WHERE " + strings.Join(conds, " AND ") + " LIMIT 1"
}
