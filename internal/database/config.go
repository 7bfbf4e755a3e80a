package database

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds database connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string

	// SQLite configuration
	SQLitePath string

	// PostgreSQL configuration
	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config with sensible defaults for SQLite.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "gravship",
		Database:        "gravship",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DSN returns the lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// ConfigFromEnv builds a Config from GRAVSHIP_DB_* variables, falling back to
// SQLite at sqlitePath.
//
//	GRAVSHIP_DB_DRIVER   sqlite | postgres
//	GRAVSHIP_DB_PATH     SQLite file
//	GRAVSHIP_PG_HOST, GRAVSHIP_PG_PORT, GRAVSHIP_PG_USER,
//	GRAVSHIP_PG_PASSWORD, GRAVSHIP_PG_DATABASE, GRAVSHIP_PG_SSLMODE
func ConfigFromEnv(sqlitePath string) (Config, error) {
	cfg := DefaultConfig(sqlitePath)
	if path := os.Getenv("GRAVSHIP_DB_PATH"); path != "" {
		cfg.SQLitePath = path
	}

	driver := os.Getenv("GRAVSHIP_DB_DRIVER")
	switch DialectType(driver) {
	case "", DialectSQLite:
		return cfg, nil
	case DialectPostgres:
	default:
		return cfg, fmt.Errorf("unknown database driver %q", driver)
	}

	cfg.Driver = string(DialectPostgres)
	cfg.Postgres = DefaultPostgresConfig()
	pg := &cfg.Postgres
	if v := os.Getenv("GRAVSHIP_PG_HOST"); v != "" {
		pg.Host = v
	}
	if v := os.Getenv("GRAVSHIP_PG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GRAVSHIP_PG_PORT %q: %w", v, err)
		}
		pg.Port = port
	}
	if v := os.Getenv("GRAVSHIP_PG_USER"); v != "" {
		pg.User = v
	}
	if v := os.Getenv("GRAVSHIP_PG_PASSWORD"); v != "" {
		pg.Password = v
	}
	if v := os.Getenv("GRAVSHIP_PG_DATABASE"); v != "" {
		pg.Database = v
	}
	if v := os.Getenv("GRAVSHIP_PG_SSLMODE"); v != "" {
		pg.SSLMode = v
	}
	return cfg, nil
}
