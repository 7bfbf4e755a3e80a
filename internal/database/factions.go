package database

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
)

// SaveFaction inserts or updates a faction.
func (d *Database) SaveFaction(f *faction.Faction) error {
	if f == nil || f.ID == 0 {
		return errors.New("faction has no ID")
	}
	query := d.qb.Upsert("factions", "id", "id", "def_name", "name", "hostile", "hidden", "defeated")
	if _, err := d.db.Exec(query, f.ID, f.DefName, f.Name, f.Hostile, f.Hidden, f.Defeated); err != nil {
		return fmt.Errorf("save faction %d: %w", f.ID, err)
	}
	return nil
}

// SaveFactions stores every faction of a manager in one transaction.
func (d *Database) SaveFactions(m *faction.Manager) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := d.qb.Upsert("factions", "id", "id", "def_name", "name", "hostile", "hidden", "defeated")
	for _, f := range m.All() {
		if _, err := tx.Exec(query, f.ID, f.DefName, f.Name, f.Hostile, f.Hidden, f.Defeated); err != nil {
			return fmt.Errorf("save faction %d: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// LoadFactions reads every stored faction into a new manager.
func (d *Database) LoadFactions() (*faction.Manager, error) {
	rows, err := d.db.Query(`SELECT id, def_name, name, hostile, hidden, defeated FROM factions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := faction.NewManager()
	for rows.Next() {
		f := &faction.Faction{}
		if err := rows.Scan(&f.ID, &f.DefName, &f.Name, &f.Hostile, &f.Hidden, &f.Defeated); err != nil {
			return nil, err
		}
		m.Add(f)
	}
	return m, rows.Err()
}
