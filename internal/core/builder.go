// Package core assembles parameterized SQL fragments from associative data.
// Identifiers are interpolated verbatim; values are always bound through
// named parameters.
package core

import (
	"fmt"
	"sort"
	"strings"
)

// SetPrefix and WherePrefix keep parameter names distinct when the same
// column appears in both the SET and WHERE clauses of an UPDATE.
const (
	SetPrefix   = "set_"
	WherePrefix = "where_"
)

// sortedKeys returns the map keys in sorted order so built statements are
// deterministic regardless of map iteration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildInsert assembles `INSERT INTO table (cols) VALUES (:cols)` and
// returns it with the parameter map to bind.
func BuildInsert(table string, data map[string]any) (string, map[string]any) {
	cols := sortedKeys(data)
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = ":" + c
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return query, data
}

// BuildSelect assembles a SELECT statement. Empty columns select `*`;
// empty conditions omit the WHERE clause entirely.
func BuildSelect(table string, columns []string, conditions map[string]any) (string, map[string]any) {
	parts := []string{"SELECT"}
	if len(columns) > 0 {
		parts = append(parts, strings.Join(columns, ", "))
	} else {
		parts = append(parts, "*")
	}
	parts = append(parts, "FROM", table)
	if len(conditions) > 0 {
		parts = append(parts, "WHERE", whereClause(conditions, ""))
	}
	return strings.Join(parts, " "), conditions
}

// BuildUpdate assembles `UPDATE table SET ... WHERE ...`. Data and
// condition parameters are prefixed with set_/where_ so the same column
// may appear on both sides without colliding.
func BuildUpdate(table string, data, conditions map[string]any) (string, map[string]any) {
	setCols := sortedKeys(data)
	assignments := make([]string, len(setCols))
	params := make(map[string]any, len(data)+len(conditions))
	for i, c := range setCols {
		assignments[i] = fmt.Sprintf("%s = :%s%s", c, SetPrefix, c)
		params[SetPrefix+c] = data[c]
	}
	for _, c := range sortedKeys(conditions) {
		params[WherePrefix+c] = conditions[c]
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		table, strings.Join(assignments, ", "), whereClause(conditions, WherePrefix))
	return query, params
}

// BuildDelete assembles `DELETE FROM table WHERE ...`.
func BuildDelete(table string, conditions map[string]any) (string, map[string]any) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, whereClause(conditions, ""))
	return query, conditions
}

// whereClause joins `col = :prefixcol` pairs with AND, in sorted column order.
func whereClause(conditions map[string]any, prefix string) string {
	cols := sortedKeys(conditions)
	pairs := make([]string, len(cols))
	for i, c := range cols {
		pairs[i] = fmt.Sprintf("%s = :%s%s", c, prefix, c)
	}
	return strings.Join(pairs, " AND ")
}
