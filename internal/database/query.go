package database

import (
	"fmt"
	"strings"
)

// QueryBuilder rewrites queries written with ? placeholders for a dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts ? placeholders to the dialect's placeholders.
//
//	input:    "SELECT * FROM sites WHERE id = ? AND tile = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT * FROM sites WHERE id = $1 AND tile = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}

// Upsert builds an INSERT that updates every non-key column when key already
// exists. Both SQLite and PostgreSQL accept the ON CONFLICT form.
//
//	Upsert("factions", "id", "id", "name")
//	=> INSERT INTO factions (id, name) VALUES (?, ?)
//	   ON CONFLICT (id) DO UPDATE SET name = excluded.name
func (qb *QueryBuilder) Upsert(table, key string, columns ...string) string {
	marks := make([]string, len(columns))
	var sets []string
	for i, c := range columns {
		marks[i] = "?"
		if c != key {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) ",
		table, strings.Join(columns, ", "), strings.Join(marks, ", "), key)
	if len(sets) == 0 {
		query += "DO NOTHING"
	} else {
		query += "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return qb.Build(query)
}
