package spawner

import (
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// hullFloorChance is the share of standable hull cells that get metal flooring.
const hullFloorChance = 0.2

// Bounds used when nothing was placed, and the minimum/margin otherwise.
const (
	emptyBoundsSize = 20
	minBoundsSize   = 10
	boundsMargin    = 10
)

// GenerateFallbackHull builds a plain rectangular hull: walls on every edge
// cell of rect, then sparse metal flooring inside. Returns the walls placed.
// A nil rng is replaced by one seeded with 0.
func (s *Spawner) GenerateFallbackHull(m *tilemap.Map, rect geom.CellRect, rng *rand.Rand) int {
	if m == nil {
		return 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	rect = m.Clip(rect)
	if rect.IsEmpty() {
		return 0
	}

	wallDef, ok := s.defs.Thing(defs.ThingWall)
	if !ok {
		logger.Warning("Wall def missing, fallback hull has no walls")
	}
	stuff, _ := s.defs.Thing(defs.ThingPlasteel)

	walls := 0
	if wallDef != nil {
		for _, c := range rect.EdgeCells() {
			if _, err := m.Spawn(tilemap.NewThing(wallDef, stuff), c, geom.North); err == nil {
				walls++
			}
		}
	}

	floors := 0
	metal, ok := s.defs.Terrain(defs.TerrainMetalTile)
	if ok {
		cells := rect.Cells()
		rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
		for _, c := range cells {
			if !m.Standable(c) {
				continue
			}
			if rng.Float64() < hullFloorChance {
				m.SetTerrain(c, metal)
				floors++
			}
		}
	}

	logger.Info("Fallback hull generated", "rect", rect, "walls", walls, "floors", floors)
	return walls
}

// CalculateBounds returns the area the later passes work on: the placed
// things' span plus a margin, centred on the map centre and clipped to it.
func CalculateBounds(placed []*tilemap.Thing, m *tilemap.Map) geom.CellRect {
	center := m.Center()
	minX, minZ := 0, 0
	maxX, maxZ := 0, 0
	found := false

	for _, t := range placed {
		if t == nil {
			continue
		}
		p := t.Position
		if !found {
			minX, maxX, minZ, maxZ = p.X, p.X, p.Z, p.Z
			found = true
			continue
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minZ = min(minZ, p.Z)
		maxZ = max(maxZ, p.Z)
	}

	if !found {
		return geom.CenteredOn(center, emptyBoundsSize, emptyBoundsSize)
	}

	width := max(minBoundsSize, maxX-minX+boundsMargin)
	height := max(minBoundsSize, maxZ-minZ+boundsMargin)
	return m.Clip(geom.CenteredOn(center, width, height))
}
