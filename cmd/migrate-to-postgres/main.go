// migrate-to-postgres copies crash sites and factions from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/gravship.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user gravship \
//	    -pg-password gravship \
//	    -pg-database gravship
package main

import (
	"flag"
	"log"
	"os"

	"github.com/lawnchairsociety/gravshipcrashes/internal/database"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/gravship.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "gravship", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "gravship", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "gravship", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	logger.Initialize(logger.Config{Level: "WARNING"})

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite database not found: %v", err)
	}

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	sites, err := src.ListSites()
	if err != nil {
		log.Fatalf("Failed to read sites: %v", err)
	}
	factions, err := src.LoadFactions()
	if err != nil {
		log.Fatalf("Failed to read factions: %v", err)
	}
	log.Printf("Found %d sites and %d factions", len(sites), len(factions.All()))

	if *dryRun {
		for _, s := range sites {
			log.Printf("  would copy site %s (layout %q)", s, s.LayoutName)
		}
		for _, f := range factions.All() {
			log.Printf("  would copy faction %s", f)
		}
		log.Println("Dry run complete, nothing written")
		return
	}

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Connecting to PostgreSQL: %s:%d/%s", pg.Host, pg.Port, pg.Database)
	dst, err := database.OpenWithConfig(database.Config{
		Driver:   string(database.DialectPostgres),
		Postgres: pg,
	})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if err := dst.SaveFactions(factions); err != nil {
		log.Fatalf("Failed to copy factions: %v", err)
	}
	log.Printf("Copied %d factions", len(factions.All()))

	copied := 0
	for _, s := range sites {
		if err := dst.SaveSite(s); err != nil {
			log.Printf("  site %d: %v", s.ID, err)
			continue
		}
		copied++
	}
	log.Printf("Copied %d/%d sites", copied, len(sites))

	if copied != len(sites) {
		os.Exit(1)
	}
	log.Println("Migration complete")
}
