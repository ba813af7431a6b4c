package shared

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"todoapp/shared/dto"
	"todoapp/shared/failure"
)

// ParseOptionalBool parses an optional boolean query value. An empty value yields nil.
func ParseOptionalBool(name, value string) (*bool, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return nil, failure.BadRequestFromString(name + " must be a boolean") //nolint:wrapcheck
	}

	return &boolValue, nil
}

// ParseID parses a positive integer identifier taken from a path parameter.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, failure.InvalidIDParam
	}

	return id, nil
}

// TransformFields converts the set fields of a struct into a map of updated columns keyed by
// their db tag. Nil pointers are skipped; a pointer to a zero value is kept, so callers can
// set a column to false or empty on purpose.
func TransformFields(data any) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	if val.Kind() == reflect.Pointer {
		val = val.Elem()
		typ = typ.Elem()
	}

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		field := val.Field(index)

		switch field.Kind() {
		case reflect.Pointer, reflect.Interface:
			if field.IsNil() {
				continue
			}

			updatedFields[fieldName] = field.Elem().Interface()
		default:
			if field.IsZero() {
				continue
			}

			updatedFields[fieldName] = field.Interface()
		}
	}

	return updatedFields
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []dto.Filter{
			{Field: fieldID, Value: id, Table: table},
		},
	}
}

// BuildCacheKey joins prefix and parts with ':' into a cache key, e.g. BuildCacheKey("todo", 1) is "todo:1".
func BuildCacheKey(prefix string, parts ...any) string {
	var sb strings.Builder

	sb.WriteString(prefix)

	for _, part := range parts {
		sb.WriteByte(':')
		sb.WriteString(fmt.Sprint(part))
	}

	return sb.String()
}
