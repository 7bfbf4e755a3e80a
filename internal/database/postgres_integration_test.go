package database

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set GRAVSHIP_TEST_POSTGRES=1 to run PostgreSQL tests; the connection comes
// from the GRAVSHIP_PG_* variables read by ConfigFromEnv.
func getPostgresTestConfig() *Config {
	if os.Getenv("GRAVSHIP_TEST_POSTGRES") == "" {
		return nil
	}
	cfg, err := ConfigFromEnv("")
	if err != nil {
		return nil
	}
	if cfg.Driver != string(DialectPostgres) {
		cfg.Driver = string(DialectPostgres)
		cfg.Postgres = DefaultPostgresConfig()
	}
	cfg.Postgres.ConnMaxLifetime = 1 * time.Minute
	return &cfg
}

// setupPostgresTestDB opens a PostgreSQL connection and clears test data.
func setupPostgresTestDB(t *testing.T) *Database {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: GRAVSHIP_TEST_POSTGRES not set")
	}

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}

	tables := []string{"sites", "factions"}
	clean := func() {
		for _, table := range tables {
			db.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		}
	}
	clean()
	t.Cleanup(func() {
		clean()
		db.Close()
	})
	return db
}

func TestPostgres_SiteRoundTrip(t *testing.T) {
	db := setupPostgresTestDB(t)

	if err := db.SaveSite(testSite(1)); err != nil {
		t.Fatalf("SaveSite failed: %v", err)
	}
	s := testSite(1)
	s.TimeoutTicks = 5
	if err := db.SaveSite(s); err != nil {
		t.Fatalf("SaveSite update failed: %v", err)
	}

	got, err := db.GetSite(1)
	if err != nil || got == nil {
		t.Fatalf("GetSite failed: %v", err)
	}
	if got.TimeoutTicks != 5 || got.StructureDamageSeed != s.StructureDamageSeed {
		t.Errorf("Unexpected site %+v", got)
	}

	if err := db.DeleteSite(1); err != nil {
		t.Fatalf("DeleteSite failed: %v", err)
	}
	sites, _ := db.ListSites()
	if len(sites) != 0 {
		t.Errorf("Expected no sites, got %d", len(sites))
	}
}

func TestPostgres_FactionRoundTrip(t *testing.T) {
	db := setupPostgresTestDB(t)

	f := &faction.Faction{ID: 7, DefName: "Gravship_Survivors", Name: "Drift Union", Hostile: true}
	if err := db.SaveFaction(f); err != nil {
		t.Fatalf("SaveFaction failed: %v", err)
	}
	m, err := db.LoadFactions()
	if err != nil {
		t.Fatalf("LoadFactions failed: %v", err)
	}
	if got := m.FirstOfDef("Gravship_Survivors"); got == nil || !got.Hostile {
		t.Errorf("Unexpected faction %v", got)
	}
}
