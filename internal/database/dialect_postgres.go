package database

import (
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for the lib/pq driver.
type PostgresDialect struct{}

// DriverName returns the lib/pq driver name.
func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns the numbered "$N" form.
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// InitStatements is empty: foreign keys are always on in PostgreSQL.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

// BoolColumn returns a native boolean column.
func (d *PostgresDialect) BoolColumn() string {
	return "BOOLEAN NOT NULL DEFAULT FALSE"
}

// IsDuplicateKeyError reports a unique_violation (23505).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// PostgreSQL error code 23505 is unique_violation
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "unique constraint")
}
