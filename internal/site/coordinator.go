// Package site drives the crash site lifecycle: the incident that creates a
// site on the world, the debug spawn action and the generation of its map.
package site

import (
	"math/rand"
	"time"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/damage"
	"github.com/lawnchairsociety/gravshipcrashes/internal/debris"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defenders"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/loot"
	"github.com/lawnchairsociety/gravshipcrashes/internal/spawner"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
	"github.com/lawnchairsociety/gravshipcrashes/internal/world"
)

const (
	// DefaultMapSize is the edge length of a generated site map.
	DefaultMapSize = 100
	// crashRectSize is the footprint reserved for the wreck before bounds are known.
	crashRectSize = 30
)

// Options tweak a single map generation.
type Options struct {
	// MapSize defaults to DefaultMapSize.
	MapSize int
	// RainRate is copied onto the map. Negative uses the rain of the site's biome.
	RainRate float64
}

// Report summarises what Generate produced.
type Report struct {
	Layout         string
	UsedHull       bool
	HullWalls      int
	Placed         int
	Bounds         geom.CellRect
	EnginesRemoved int
	Structure      damage.Report
	Things         damage.Report
	Debris         debris.ScatterReport
	Loot           debris.LootReport
	Defenders      []*tilemap.Pawn
	Faction        *faction.Faction
}

// Coordinator wires the generation stages together.
type Coordinator struct {
	defs      *defs.Registry
	layouts   *layout.Registry
	settings  *config.Settings
	session   *faction.Session
	world     *world.World
	spawner   *spawner.Spawner
	debris    *debris.Scatterer
	defenders *defenders.Spawner
	loot      loot.Source
}

// NewCoordinator creates a coordinator. A nil settings value uses the defaults.
func NewCoordinator(reg *defs.Registry, layouts *layout.Registry, settings *config.Settings, session *faction.Session) *Coordinator {
	if settings == nil {
		settings = config.DefaultConfig()
	}
	if layouts == nil {
		layouts = layout.NewRegistry()
	}
	c := &Coordinator{
		defs:      reg,
		layouts:   layouts,
		settings:  settings,
		session:   session,
		spawner:   spawner.New(reg),
		debris:    debris.New(reg),
		defenders: defenders.New(reg, nil),
	}
	if table, ok := loot.FromRegistry(reg, defs.LootTableCrashLoot); ok {
		c.loot = table
	} else {
		logger.Warning("Crash loot table missing, sites will have no loot", "table", defs.LootTableCrashLoot)
	}
	if settings.DebugLogging {
		logger.SetDebug(true)
	}
	return c
}

// SetWorld attaches the world the coordinator creates sites on.
func (c *Coordinator) SetWorld(w *world.World) {
	c.world = w
}

// SetLootSource replaces the crash loot table.
func (c *Coordinator) SetLootSource(src loot.Source) {
	c.loot = src
}

// SetPawnGenerator replaces the defender generator.
func (c *Coordinator) SetPawnGenerator(gen defenders.PawnGenerator) {
	c.defenders = defenders.New(c.defs, gen)
}

// Settings returns the active settings.
func (c *Coordinator) Settings() *config.Settings {
	return c.settings
}

// Layouts returns the layout registry.
func (c *Coordinator) Layouts() *layout.Registry {
	return c.layouts
}

// ApplySettings swaps in new settings and refreshes everything derived from them.
func (c *Coordinator) ApplySettings(s *config.Settings) {
	if s == nil {
		return
	}
	s.Clamp()
	s.SynchroniseShips(c.layouts.Names())
	c.settings = s
	c.layouts.NotifySettingsChanged()
	logger.SetDebug(s.DebugLogging)
}

// Generate builds the map for site. A nil site gets fresh random seeds.
func (c *Coordinator) Generate(s *world.Site, opts Options) (*tilemap.Map, Report) {
	var rep Report

	if s == nil {
		logger.Warning("Generating crash site without a site, seeds will be random")
		s = world.NewSite(-1, rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	size := opts.MapSize
	if size <= 0 {
		size = DefaultMapSize
	}
	soil, ok := c.defs.Terrain(defs.TerrainSoil)
	if !ok {
		logger.Warning("Base terrain missing", "terrain", defs.TerrainSoil)
	}
	m := tilemap.New(size, size, s.Tile, soil)
	m.RainRate = c.rainRate(s, opts)

	// Spawn-time randomness (fuel, hull floor, engine fires) follows the structure seed.
	rng := rand.New(rand.NewSource(s.StructureDamageSeed))

	usedRect := geom.CenteredOn(m.Center(), crashRectSize, crashRectSize)
	l := c.resolveLayout(s, rng)

	spawned := false
	var placed []*tilemap.Thing
	if l != nil {
		rep.Layout = l.Name
		res := c.spawner.Spawn(m, l, usedRect.CenterCell(), c.session, rng)
		rep.Placed = res.Count
		rep.Faction = res.Faction
		if res.OK {
			spawned = true
			placed = res.Placed
			usedRect = spawner.CalculateBounds(res.Placed, m)
		}
	}
	if !spawned {
		logger.Warning("Ship layout spawn failed, using fallback hull", "site", s.ID)
		rep.UsedHull = true
		rep.HullWalls = c.spawner.GenerateFallbackHull(m, usedRect, rng)
		usedRect = m.Clip(usedRect)
	}
	rep.Bounds = usedRect

	rep.EnginesRemoved = c.debris.RemoveGravEngines(m, usedRect.Cells(), rng)
	rep.Structure = damage.ApplyStructureDamage(m, usedRect, c.settings.StructureDamage, s.StructureDamageSeed)
	rep.Things = damage.ApplyThingDamage(m, usedRect, c.settings.ThingDamage, s.ThingDamageSeed)
	rep.Debris = c.debris.ScatterDebris(m, usedRect, s.StructureDamageSeed)
	rep.Loot = c.debris.SpawnLoot(m, usedRect, s.LootSeed, c.loot)

	if rep.Faction == nil && c.session != nil {
		f, err := c.session.Hostile()
		if err != nil {
			logger.Warning("No defender faction", "error", err)
		}
		rep.Faction = f
	}
	rep.Defenders = c.defenders.Spawn(m, usedRect, c.settings, l, rep.Faction, placed, s.DefenderSeed)

	logger.Info("Crash site generated",
		"site", s.ID,
		"layout", rep.Layout,
		"hull", rep.UsedHull,
		"bounds", rep.Bounds,
		"defenders", len(rep.Defenders))
	return m, rep
}

// SiteRemoved forgets the layout chosen for a site that left the world.
func (c *Coordinator) SiteRemoved(s *world.Site) {
	if s == nil {
		return
	}
	s.LayoutName = ""
}

// resolveLayout looks up the site's layout, falling back to a random allowed one.
func (c *Coordinator) resolveLayout(s *world.Site, rng *rand.Rand) *layout.ShipLayout {
	if s.LayoutName != "" {
		if l, ok := c.layouts.Get(s.LayoutName); ok {
			return l
		}
		logger.Warning("Site layout not found, choosing another", "layout", s.LayoutName)
	}
	l, err := c.layouts.RandomAllowed(c.settings, rng)
	if err != nil {
		logger.Warning("No layout available for crash site", "error", err)
		return nil
	}
	s.LayoutName = l.Name
	return l
}

func (c *Coordinator) rainRate(s *world.Site, opts Options) float64 {
	if opts.RainRate >= 0 {
		return geom.Clamp01(opts.RainRate)
	}
	if c.world == nil {
		return 0
	}
	tile, ok := c.world.Tile(s.Tile)
	if !ok {
		return 0
	}
	return tile.Biome.RainRate()
}
