package database

import (
	"errors"
	"testing"
)

func TestNewDialect(t *testing.T) {
	tests := []struct {
		in   DialectType
		want string
	}{
		{DialectSQLite, "sqlite"},
		{DialectPostgres, "postgres"},
		{"unknown", "sqlite"}, // Unknown dialect defaults to SQLite
	}
	for _, tt := range tests {
		if got := NewDialect(tt.in).DriverName(); got != tt.want {
			t.Errorf("NewDialect(%q).DriverName() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	sqlite := &SQLiteDialect{}
	pg := &PostgresDialect{}
	for _, pos := range []int{1, 2, 10} {
		if got := sqlite.Placeholder(pos); got != "?" {
			t.Errorf("SQLite Placeholder(%d) = %q", pos, got)
		}
	}
	if got := pg.Placeholder(3); got != "$3" {
		t.Errorf("Postgres Placeholder(3) = %q, want $3", got)
	}
}

func TestInitStatements(t *testing.T) {
	stmts := (&SQLiteDialect{}).InitStatements()
	found := false
	for _, s := range stmts {
		if s == "PRAGMA foreign_keys = ON" {
			found = true
		}
	}
	if !found {
		t.Error("Expected SQLite to enable foreign keys")
	}
	if len((&PostgresDialect{}).InitStatements()) != 0 {
		t.Error("Expected no PostgreSQL init statements")
	}
}

func TestBoolColumn(t *testing.T) {
	if got := (&SQLiteDialect{}).BoolColumn(); got != "INTEGER NOT NULL DEFAULT 0" {
		t.Errorf("SQLite BoolColumn() = %q", got)
	}
	if got := (&PostgresDialect{}).BoolColumn(); got != "BOOLEAN NOT NULL DEFAULT FALSE" {
		t.Errorf("Postgres BoolColumn() = %q", got)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		dialect Dialect
		err     error
		want    bool
	}{
		{&SQLiteDialect{}, nil, false},
		{&SQLiteDialect{}, errors.New("UNIQUE constraint failed: sites.id"), true},
		{&SQLiteDialect{}, errors.New("no such table"), false},
		{&PostgresDialect{}, nil, false},
		{&PostgresDialect{}, errors.New(`pq: duplicate key value violates unique constraint "sites_pkey"`), true},
		{&PostgresDialect{}, errors.New("ERROR: 23505"), true},
		{&PostgresDialect{}, errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := tt.dialect.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("%T.IsDuplicateKeyError(%v) = %v, want %v", tt.dialect, tt.err, got, tt.want)
		}
	}
}

func TestQueryBuilder_Build(t *testing.T) {
	query := "SELECT * FROM sites WHERE id = ? AND tile = ?"

	if got := NewQueryBuilder(&SQLiteDialect{}).Build(query); got != query {
		t.Errorf("SQLite Build changed the query: %q", got)
	}

	want := "SELECT * FROM sites WHERE id = $1 AND tile = $2"
	if got := NewQueryBuilder(&PostgresDialect{}).Build(query); got != want {
		t.Errorf("Postgres Build() = %q, want %q", got, want)
	}
}

func TestQueryBuilder_Upsert(t *testing.T) {
	sqlite := NewQueryBuilder(&SQLiteDialect{})
	want := "INSERT INTO factions (id, name, hidden) VALUES (?, ?, ?) ON CONFLICT (id) DO UPDATE SET name = excluded.name, hidden = excluded.hidden"
	if got := sqlite.Upsert("factions", "id", "id", "name", "hidden"); got != want {
		t.Errorf("Upsert() =\n%q\nwant\n%q", got, want)
	}

	pg := NewQueryBuilder(&PostgresDialect{})
	want = "INSERT INTO factions (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = excluded.name"
	if got := pg.Upsert("factions", "id", "id", "name"); got != want {
		t.Errorf("Postgres Upsert() =\n%q\nwant\n%q", got, want)
	}

	want = "INSERT INTO tags (id) VALUES (?) ON CONFLICT (id) DO NOTHING"
	if got := sqlite.Upsert("tags", "id", "id"); got != want {
		t.Errorf("key-only Upsert() = %q, want %q", got, want)
	}
}

func TestDefaultConfigs(t *testing.T) {
	cfg := DefaultConfig("data/sites.db")
	if cfg.Driver != "sqlite" || cfg.SQLitePath != "data/sites.db" {
		t.Errorf("unexpected DefaultConfig %+v", cfg)
	}

	pg := DefaultPostgresConfig()
	if pg.Port != 5432 || pg.SSLMode != "disable" || pg.MaxOpenConns <= 0 {
		t.Errorf("unexpected DefaultPostgresConfig %+v", pg)
	}
}

func TestDialect_InterfaceCompliance(t *testing.T) {
	var _ Dialect = (*SQLiteDialect)(nil)
	var _ Dialect = (*PostgresDialect)(nil)
}
