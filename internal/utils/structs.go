package utils

import (
	"reflect"
	"slices"
)

// ColumnTag is the struct tag that names a column.
var ColumnTag = "db"

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return v
}

// eachColumn calls fn for every exported field carrying a column tag.
func eachColumn(v reflect.Value, fn func(column string, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			continue
		}

		column := t.Field(i).Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, v.Field(i))
	}
}

// StructTagValues lists the column names of a struct in field order.
func StructTagValues(input any) []string {
	v := structValue(input)

	result := make([]string, 0, v.NumField())
	eachColumn(v, func(column string, _ reflect.Value) {
		result = append(result, column)
	})

	return result
}

// StructToMap maps column names to field values, leaving out any column
// listed in omit.
func StructToMap(input any, omit ...string) map[string]any {
	v := structValue(input)

	result := make(map[string]any, v.NumField())
	eachColumn(v, func(column string, field reflect.Value) {
		if slices.Contains(omit, column) {
			return
		}
		result[column] = field.Interface()
	})

	return result
}
