// Package rowmap copies stored column values into record structs.
//
// A struct field maps to the column named by its `db` tag, or to the
// snake_case of its name when untagged. `db:"-"` skips the field.
package rowmap

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"factory-generator/internal/common"
)

// ErrDestination is returned for a destination that is not a non-nil struct pointer.
var ErrDestination = errors.New("rowmap: destination must be a non-nil pointer to a struct")

// Column returns the column a struct field maps to, or "" when skipped.
func Column(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}

	if tag, ok := f.Tag.Lookup("db"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return common.SnakeCase(f.Name)
}

// Fill assigns row values to the matching fields of dest.
// Columns without a field and fields without a column are ignored.
func Fill(dest any, row map[string]any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrDestination
	}

	return fillStruct(rv.Elem(), row)
}

func fillStruct(sv reflect.Value, row map[string]any) error {
	st := sv.Type()
	for i := range st.NumField() {
		f := st.Field(i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if err := fillStruct(sv.Field(i), row); err != nil {
				return err
			}

			continue
		}

		col := Column(f)
		if col == "" {
			continue
		}

		v, ok := row[col]
		if !ok {
			continue
		}

		if err := assign(sv.Field(i), v); err != nil {
			return fmt.Errorf("rowmap: column %q into %s.%s: %w", col, st.Name(), f.Name, err)
		}
	}

	return nil
}

func assign(field reflect.Value, v any) error {
	if scanner, ok := field.Addr().Interface().(sql.Scanner); ok {
		return scanner.Scan(v)
	}

	if v == nil {
		field.SetZero()
		return nil
	}

	val := reflect.ValueOf(v)

	// A pointer field takes a value of its element type.
	if field.Kind() == reflect.Pointer && val.Kind() != reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}

		field.Set(elem)

		return nil
	}

	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case val.Type().ConvertibleTo(field.Type()) && convertible(val.Kind(), field.Kind()):
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", val.Type(), field.Type())
	}

	return nil
}

// convertible rejects conversions reflect allows but that corrupt data,
// such as int to string.
func convertible(from, to reflect.Kind) bool {
	if to == reflect.String {
		return from == reflect.String || from == reflect.Slice
	}

	if from == reflect.String {
		return to == reflect.String || to == reflect.Slice
	}

	return true
}
