// Package debris litters a crash site with fuel spills, fires, wreckage and loot.
package debris

import (
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/loot"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

const (
	cellsPerMarker = 25
	minMarkers     = 6
	maxMarkers     = 40
	fireChance     = 0.35
	// rainedOut is the rain rate at which wreck fires no longer start.
	rainedOut = 0.5
)

var (
	debrisFireSize = geom.FloatRange{Min: 0.05, Max: 0.2}
	engineFireSize = geom.FloatRange{Min: 0.1, Max: 0.2}

	// CrashLootParams is the value range and tech tier of crash salvage.
	CrashLootParams = loot.Params{
		Value: geom.FloatRange{Min: 300, Max: 900},
		Tech:  defs.TechSpacer,
	}
)

// GravEngineDefs are the engine defs of the base game and the ship mods that
// must never survive into a crash site.
var GravEngineDefs = []string{
	"ShipGravEngine",
	"ShipPart_GravEngine",
	"VFEI_GravEngine",
	"SOS2_ShipGravEngine",
}

// ScatterReport summarises ScatterDebris.
type ScatterReport struct {
	Markers int
	Filth   int
	Fires   int
}

// LootReport summarises SpawnLoot.
type LootReport struct {
	Stored  int
	Dropped int
	Lost    int
}

// Scatterer places debris using the content registry.
type Scatterer struct {
	defs *defs.Registry
}

// New creates a scatterer.
func New(registry *defs.Registry) *Scatterer {
	return &Scatterer{defs: registry}
}

// MarkerCount returns how many debris markers an area of the given size gets.
func MarkerCount(area int) int {
	return geom.Clamp(area/cellsPerMarker, minMarkers, maxMarkers)
}

// ScatterDebris drops fuel filth on random walkable cells of area, some of
// them burning.
func (s *Scatterer) ScatterDebris(m *tilemap.Map, area geom.CellRect, seed int64) ScatterReport {
	var rep ScatterReport
	if m == nil {
		return rep
	}
	rng := rand.New(rand.NewSource(seed))
	filth, ok := s.defs.Thing(defs.ThingFilthFuel)
	if !ok {
		logger.Warning("Fuel filth def missing, debris will only burn")
	}

	rep.Markers = MarkerCount(area.Area())
	for i := 0; i < rep.Markers; i++ {
		cell := area.RandomCell(rng)
		if !m.InBounds(cell) || !m.Walkable(cell) {
			continue
		}
		if filth != nil && m.MakeFilth(cell, filth) {
			rep.Filth++
		}
		if rng.Float64() < fireChance {
			if m.TryStartFire(cell, debrisFireSize.RandomIn(rng)) {
				rep.Fires++
			}
		}
	}

	logger.Debug("Debris scattered", "markers", rep.Markers, "filth", rep.Filth, "fires", rep.Fires)
	return rep
}

// SpawnLoot generates a salvage set and stows it in storage containers inside
// area, in shuffled order. Items no container accepts are dropped near a
// random area cell.
func (s *Scatterer) SpawnLoot(m *tilemap.Map, area geom.CellRect, seed int64, source loot.Source) LootReport {
	var rep LootReport
	if m == nil || source == nil {
		logger.Warning("Loot spawn skipped: no map or loot source")
		return rep
	}
	rng := rand.New(rand.NewSource(seed))

	items := source.Generate(rng, CrashLootParams)
	containers := storageIn(m, area)
	rng.Shuffle(len(containers), func(i, j int) {
		containers[i], containers[j] = containers[j], containers[i]
	})

	for _, item := range items {
		if stow(containers, item) {
			rep.Stored++
			continue
		}

		cell := area.RandomCell(rng)
		if !m.InBounds(cell) {
			cell = m.Center()
		}
		if _, ok := m.TryPlaceThing(item, cell, tilemap.PlaceNear); ok {
			rep.Dropped++
		} else {
			rep.Lost++
			logger.Warning("No room to drop loot item", "item", item.Label(), "near", cell)
		}
	}

	logger.Debug("Loot spawned", "items", len(items), "stored", rep.Stored, "dropped", rep.Dropped)
	return rep
}

func storageIn(m *tilemap.Map, area geom.CellRect) []*tilemap.Thing {
	var out []*tilemap.Thing
	for _, t := range m.AllThings() {
		if t.Def.Storage == nil || t.Def.Storage.Slots <= 0 {
			continue
		}
		if area.Contains(t.Position) {
			out = append(out, t)
		}
	}
	return out
}

func stow(containers []*tilemap.Thing, item *tilemap.Thing) bool {
	for _, c := range containers {
		if c.Destroyed || !c.Accepts(item) {
			continue
		}
		item.Position = c.Position
		c.Contents = append(c.Contents, item)
		return true
	}
	return false
}

// RemoveGravEngines wrecks every intact grav engine, first in the given cells
// and then anywhere else on the map. Each becomes slag, burning unless it rains.
// Returns the number of engines removed.
func (s *Scatterer) RemoveGravEngines(m *tilemap.Map, cells []geom.IntVec, rng *rand.Rand) int {
	if m == nil {
		return 0
	}
	removed := 0
	for _, c := range cells {
		for _, t := range m.ThingsAt(c) {
			if isGravEngine(t.Def) {
				s.wreck(m, t, rng)
				removed++
			}
		}
	}
	for _, t := range m.AllThings() {
		if isGravEngine(t.Def) {
			s.wreck(m, t, rng)
			removed++
		}
	}
	if removed > 0 {
		logger.Info("Grav engines wrecked", "count", removed)
	}
	return removed
}

func (s *Scatterer) wreck(m *tilemap.Map, t *tilemap.Thing, rng *rand.Rand) {
	cell := t.Position
	m.Destroy(t)

	if slag, ok := s.defs.Thing(defs.ThingSlag); ok {
		m.TryPlaceThing(tilemap.NewThing(slag, nil), cell, tilemap.PlaceDirect)
	}
	if m.RainRate < rainedOut {
		m.TryStartFire(cell, engineFireSize.RandomIn(rng))
	}
}

func isGravEngine(def *defs.ThingDef) bool {
	if def == nil {
		return false
	}
	for _, name := range GravEngineDefs {
		if def.Name == name {
			return true
		}
	}
	return false
}
