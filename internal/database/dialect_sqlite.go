package database

import (
	"strings"
)

// SQLiteDialect implements Dialect for the modernc.org/sqlite driver.
type SQLiteDialect struct{}

// DriverName returns the modernc.org/sqlite driver name.
func (d *SQLiteDialect) DriverName() string {
	return "sqlite"
}

// Placeholder returns "?" for every position.
func (d *SQLiteDialect) Placeholder(position int) string {
	return "?"
}

// InitStatements enables foreign keys, WAL and a lock wait.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// BoolColumn uses INTEGER; SQLite has no boolean type.
func (d *SQLiteDialect) BoolColumn() string {
	return "INTEGER NOT NULL DEFAULT 0"
}

// IsDuplicateKeyError reports a UNIQUE constraint failure.
func (d *SQLiteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
