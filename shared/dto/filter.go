package dto

import (
	"fmt"
	"maps"
	"strings"
)

// Filter matches rows whose column equals Value.
type Filter struct {
	ArgName string
	Field   string
	Value   any
	Table   string
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	column := f.Field
	if f.Table != "" {
		column = fmt.Sprintf("%s.%s", f.Table, f.Field)
	}

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	return fmt.Sprintf("%s = :%s", column, argName), map[string]any{argName: f.Value}
}

// FilterGroup matches rows that satisfy every filter in it. An empty group matches all rows.
type FilterGroup struct {
	Filters []Filter
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		where, arg := filter.GetWhereClause()
		whereClause = append(whereClause, where)

		maps.Copy(args, arg)
	}

	if len(whereClause) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " AND ")), args
}
