// Package spawner stamps a ship layout onto a tile map.
package spawner

import (
	"math/rand"
	"strings"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/roof"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// substructureName is the foundation placeholder that maps onto metal tile when
// no terrain of that name is registered.
const substructureName = "Substructure"

// Result describes one Spawn call.
type Result struct {
	// OK is false when nothing at all could be placed.
	OK      bool
	Placed  []*tilemap.Thing
	Faction *faction.Faction
	// Count is the number of surfaces and objects placed.
	Count int
	// Touched lists every in-bounds cell a pass worked on.
	Touched []geom.IntVec
	// Engine is the wreck placed at the engine marker, if any.
	Engine *tilemap.Thing
}

// Spawner places layouts using the content registry.
type Spawner struct {
	defs *defs.Registry
}

// New creates a spawner backed by the given registry.
func New(registry *defs.Registry) *Spawner {
	return &Spawner{defs: registry}
}

// Spawn stamps the layout centred on center in four passes: foundations,
// floors, objects, then roofs over every touched cell. The engine wreck goes
// in last. Placement is not transactional; partial output counts as success.
// A nil rng is replaced by one seeded with 0.
func (s *Spawner) Spawn(m *tilemap.Map, l *layout.ShipLayout, center geom.IntVec, session *faction.Session, rng *rand.Rand) Result {
	var res Result
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	if m == nil {
		logger.Warning("Layout spawn skipped: map is nil")
		return res
	}
	if l == nil {
		logger.Warning("Layout spawn skipped: layout is nil")
		return res
	}
	if len(l.Rows) == 0 {
		logger.Warning("Layout spawn skipped: layout has no rows", "layout", l.Name)
		return res
	}

	logger.Debug("Spawning layout", "layout", l.Name, "width", l.Width, "height", l.Height, "center", center)

	if session != nil {
		f, err := session.Hostile()
		if err != nil {
			logger.Warning("No hostile faction for layout objects", "error", err)
		}
		res.Faction = f
	}

	origin := center.Sub(geom.IntVec{X: l.Width / 2, Z: l.Height / 2})

	// Pass 1: foundations
	s.eachCell(m, l, origin, func(c *layout.Cell, pos geom.IntVec) {
		if c.Foundation == "" {
			return
		}
		if s.placeFoundation(m, c.Foundation, pos) {
			res.Count++
		}
		res.Touched = append(res.Touched, pos)
	})

	// Pass 2: floors
	s.eachCell(m, l, origin, func(c *layout.Cell, pos geom.IntVec) {
		if c.Floor == "" {
			return
		}
		if s.placeFloor(m, c.Floor, pos) {
			res.Count++
		}
		res.Touched = append(res.Touched, pos)
	})

	// Pass 3: objects
	s.eachCell(m, l, origin, func(c *layout.Cell, pos geom.IntVec) {
		if len(c.Objects) == 0 {
			return
		}
		for _, entry := range c.Objects {
			t := s.placeObject(m, entry, pos, res.Faction, rng)
			if t == nil {
				continue
			}
			res.Placed = append(res.Placed, t)
			res.Count++
		}
		res.Touched = append(res.Touched, pos)
	})

	// Pass 4: roofs
	roof.Build(m, res.Touched)

	if l.HasEngineMarker() {
		enginePos := origin.Add(geom.IntVec{X: l.EngineX, Z: l.EngineZ})
		if m.InBounds(enginePos) {
			res.Engine = s.spawnBrokenEngine(m, enginePos, res.Faction)
		} else {
			logger.Warning("Engine marker lies outside the map", "layout", l.Name, "cell", enginePos)
		}
	} else {
		logger.Debug("Layout has no engine marker", "layout", l.Name)
	}

	res.OK = res.Count > 0
	logger.Info("Layout spawned", "layout", l.Name, "placed", res.Count, "things", len(res.Placed))
	return res
}

// eachCell visits every non-empty, in-bounds layout cell in row order.
func (s *Spawner) eachCell(m *tilemap.Map, l *layout.ShipLayout, origin geom.IntVec, fn func(*layout.Cell, geom.IntVec)) {
	for z, row := range l.Rows {
		for x, c := range row {
			if c == nil {
				continue
			}
			pos := origin.Add(geom.IntVec{X: x, Z: z})
			if !m.InBounds(pos) {
				continue
			}
			fn(c, pos)
		}
	}
}

func (s *Spawner) placeFoundation(m *tilemap.Map, name string, pos geom.IntVec) bool {
	terrain, ok := s.defs.Terrain(name)
	if !ok && strings.EqualFold(name, substructureName) {
		terrain, ok = s.defs.Terrain(defs.TerrainMetalTile)
		if ok {
			logger.Debug("Substructure replaced with metal tile", "cell", pos)
		}
	}
	if !ok {
		logger.Warning("Unknown foundation", "foundation", name, "cell", pos)
		return false
	}
	return m.SetTerrain(pos, terrain)
}

func (s *Spawner) placeFloor(m *tilemap.Map, name string, pos geom.IntVec) bool {
	terrain, ok := s.defs.Terrain(name)
	if !ok {
		logger.Warning("Unknown floor", "floor", name, "cell", pos)
		return false
	}
	return m.SetTerrain(pos, terrain)
}

func (s *Spawner) placeObject(m *tilemap.Map, entry layout.ObjectEntry, pos geom.IntVec, f *faction.Faction, rng *rand.Rand) *tilemap.Thing {
	if entry.Def == "" {
		return nil
	}
	def, ok := s.defs.Thing(entry.Def)
	if !ok {
		logger.Warning("Unknown thing", "def", entry.Def, "cell", pos)
		return nil
	}
	var stuff *defs.ThingDef
	if entry.Stuff != "" {
		if stuff, ok = s.defs.Thing(entry.Stuff); !ok {
			logger.Debug("Unknown stuff, spawning without it", "stuff", entry.Stuff, "def", entry.Def)
			stuff = nil
		}
	}

	t, err := m.Spawn(tilemap.NewThing(def, stuff), pos, entry.Rotation)
	if err != nil {
		logger.Warning("Failed to spawn thing", "def", entry.Def, "cell", pos, "error", err)
		return nil
	}

	if f != nil {
		t.SetFaction(f)
	}
	if def.FuelCapacity > 0 {
		fuel := def.FuelCapacity * (0.3 + rng.Float64()*0.4)
		t.Refuel(fuel)
		logger.Debug("Set initial fuel", "thing", t.Label(), "fuel", fuel, "capacity", def.FuelCapacity)
	}
	if def.PowerConsumer {
		t.PowerOn = true
	}
	return t
}

func (s *Spawner) spawnBrokenEngine(m *tilemap.Map, pos geom.IntVec, f *faction.Faction) *tilemap.Thing {
	def, ok := s.defs.Thing(defs.ThingBrokenEngine)
	if !ok {
		logger.Warning("Broken engine def missing, falling back to slag")
		if def, ok = s.defs.Thing(defs.ThingSlag); !ok {
			logger.Warning("Slag def missing, no engine wreck placed")
			return nil
		}
	}
	t, err := m.Spawn(tilemap.NewThing(def, nil), pos, geom.North)
	if err != nil {
		logger.Warning("Failed to spawn engine wreck", "cell", pos, "error", err)
		return nil
	}
	if f != nil {
		t.SetFaction(f)
	}
	logger.Debug("Placed engine wreck", "def", def.Name, "cell", pos)
	return t
}
