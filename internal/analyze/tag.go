package analyze

import (
	"reflect"
	"strings"

	"factory-generator/internal/common"
)

// ColumnName returns the column a record or builder field maps to: the `db`
// tag name when present, otherwise the snake_case of the field name. The
// second result is false for `db:"-"`.
func ColumnName(name string, tag reflect.StructTag) (string, bool) {
	if v, ok := tag.Lookup("db"); ok {
		col, _, _ := strings.Cut(v, ",")
		if col == "-" {
			return "", false
		}

		if col != "" {
			return col, true
		}
	}

	return common.SnakeCase(name), true
}
