package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/world"
)

const siteColumns = `id, tile, label, layout_name, structure_damage_seed, thing_damage_seed,
	loot_seed, defender_seed, timeout_ticks, created_at`

// SaveSite inserts or updates a site.
func (d *Database) SaveSite(s *world.Site) error {
	if s == nil {
		return errors.New("nil site")
	}
	if s.ID == 0 {
		return errors.New("site has no ID")
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query := d.qb.Upsert("sites", "id",
		"id", "tile", "label", "layout_name",
		"structure_damage_seed", "thing_damage_seed", "loot_seed", "defender_seed",
		"timeout_ticks", "created_at")
	_, err := d.db.Exec(query,
		s.ID, s.Tile, s.Label, s.LayoutName,
		s.StructureDamageSeed, s.ThingDamageSeed, s.LootSeed, s.DefenderSeed,
		s.TimeoutTicks, created.UTC())
	if err != nil {
		return fmt.Errorf("save site %d: %w", s.ID, err)
	}
	return nil
}

// GetSite returns the site with the given ID, or nil if it does not exist.
func (d *Database) GetSite(id int64) (*world.Site, error) {
	row := d.db.QueryRow(d.qb.Build(`SELECT `+siteColumns+` FROM sites WHERE id = ?`), id)

	s, err := scanSite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSites returns every stored site ordered by ID.
func (d *Database) ListSites() ([]*world.Site, error) {
	rows, err := d.db.Query(`SELECT ` + siteColumns + ` FROM sites ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*world.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// LoadSites adds every stored site to w and returns how many were added.
// Sites whose tile lies outside w are skipped with a warning.
func (d *Database) LoadSites(w *world.World) (int, error) {
	sites, err := d.ListSites()
	if err != nil {
		return 0, fmt.Errorf("load sites: %w", err)
	}
	n := 0
	for _, s := range sites {
		if err := w.AddSite(s); err != nil {
			logger.Warning("Skipping stored site", "site", s.ID, "tile", s.Tile, "error", err)
			continue
		}
		n++
	}
	return n, nil
}

// DeleteSite removes a site. Deleting a missing site is not an error.
func (d *Database) DeleteSite(id int64) error {
	_, err := d.db.Exec(d.qb.Build(`DELETE FROM sites WHERE id = ?`), id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSite(row scanner) (*world.Site, error) {
	s := &world.Site{}
	err := row.Scan(&s.ID, &s.Tile, &s.Label, &s.LayoutName,
		&s.StructureDamageSeed, &s.ThingDamageSeed, &s.LootSeed, &s.DefenderSeed,
		&s.TimeoutTicks, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
