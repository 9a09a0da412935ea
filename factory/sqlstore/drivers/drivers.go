// Package drivers registers the database/sql drivers sqlstore has dialects for.
//
//	import _ "factory-generator/factory/sqlstore/drivers"
//
// Registered names: "pgx" (jackc/pgx), "postgres" (lib/pq), "mysql"
// (go-sql-driver/mysql) and "sqlite" (modernc.org/sqlite, pure Go).
package drivers

import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)
