// Package tilemap is the in-memory tile map a crash site is generated onto:
// terrain and roof grids, spawned things, pawns, fires and squad lords.
package tilemap

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
)

var (
	// ErrOutOfBounds is returned when a spawn target lies outside the map.
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrNoDef is returned when a thing without a def is spawned.
	ErrNoDef = errors.New("thing has no def")
)

// Roof is the roof state of one cell.
type Roof int

const (
	RoofNone Roof = iota
	RoofConstructed
)

// PlaceMode controls TryPlaceThing.
type PlaceMode int

const (
	// PlaceDirect only uses the requested cell.
	PlaceDirect PlaceMode = iota
	// PlaceNear searches outward for the closest free cell.
	PlaceNear
)

// nearSearchRadius bounds the outward search done by PlaceNear.
const nearSearchRadius = 12

// Fire is a burning cell.
type Fire struct {
	Position geom.IntVec
	Size     float64
}

// Map is a generated tile map.
type Map struct {
	SizeX, SizeZ int
	Tile         int
	// RainRate is 0 for dry weather and 1 for a downpour.
	RainRate float64

	terrain []*defs.TerrainDef
	roofs   []Roof
	cells   [][]*Thing
	things  []*Thing
	pawns   []*Pawn
	fires   []*Fire
	lords   []*Lord
	nextID  int
}

// New creates a sizeX x sizeZ map covered with the base terrain.
func New(sizeX, sizeZ, tile int, base *defs.TerrainDef) *Map {
	n := sizeX * sizeZ
	m := &Map{
		SizeX:   sizeX,
		SizeZ:   sizeZ,
		Tile:    tile,
		terrain: make([]*defs.TerrainDef, n),
		roofs:   make([]Roof, n),
		cells:   make([][]*Thing, n),
		nextID:  1,
	}
	for i := range m.terrain {
		m.terrain[i] = base
	}
	return m
}

func (m *Map) index(c geom.IntVec) int {
	return c.Z*m.SizeX + c.X
}

// InBounds reports whether c lies on the map.
func (m *Map) InBounds(c geom.IntVec) bool {
	return c.X >= 0 && c.Z >= 0 && c.X < m.SizeX && c.Z < m.SizeZ
}

// IsEdge reports whether c is on the outermost ring of the map.
func (m *Map) IsEdge(c geom.IntVec) bool {
	return c.X <= 0 || c.Z <= 0 || c.X >= m.SizeX-1 || c.Z >= m.SizeZ-1
}

// Center returns the middle cell.
func (m *Map) Center() geom.IntVec {
	return geom.IntVec{X: m.SizeX / 2, Z: m.SizeZ / 2}
}

// Rect returns the whole map as a rect.
func (m *Map) Rect() geom.CellRect {
	return geom.CellRect{MinX: 0, MinZ: 0, MaxX: m.SizeX - 1, MaxZ: m.SizeZ - 1}
}

// Clip clips r to the map.
func (m *Map) Clip(r geom.CellRect) geom.CellRect {
	return r.ClipTo(m.SizeX, m.SizeZ)
}

// TerrainAt returns the terrain of c, or nil out of bounds.
func (m *Map) TerrainAt(c geom.IntVec) *defs.TerrainDef {
	if !m.InBounds(c) {
		return nil
	}
	return m.terrain[m.index(c)]
}

// SetTerrain replaces the terrain of c.
func (m *Map) SetTerrain(c geom.IntVec, t *defs.TerrainDef) bool {
	if !m.InBounds(c) || t == nil {
		return false
	}
	m.terrain[m.index(c)] = t
	return true
}

// Roofed reports whether c has a roof.
func (m *Map) Roofed(c geom.IntVec) bool {
	return m.InBounds(c) && m.roofs[m.index(c)] != RoofNone
}

// SetRoof sets the roof of c.
func (m *Map) SetRoof(c geom.IntVec, r Roof) {
	if m.InBounds(c) {
		m.roofs[m.index(c)] = r
	}
}

// ThingsAt returns a copy of the live things in c.
func (m *Map) ThingsAt(c geom.IntVec) []*Thing {
	list := m.cellThings(c)
	out := make([]*Thing, len(list))
	copy(out, list)
	return out
}

func (m *Map) cellThings(c geom.IntVec) []*Thing {
	if !m.InBounds(c) {
		return nil
	}
	return m.cells[m.index(c)]
}

// AllThings returns a snapshot of live things in spawn order.
func (m *Map) AllThings() []*Thing {
	out := make([]*Thing, 0, len(m.things))
	for _, t := range m.things {
		if !t.Destroyed {
			out = append(out, t)
		}
	}
	return out
}

// Pawns returns a snapshot of spawned pawns.
func (m *Map) Pawns() []*Pawn {
	out := make([]*Pawn, len(m.pawns))
	copy(out, m.pawns)
	return out
}

// Fires returns the active fires.
func (m *Map) Fires() []*Fire {
	out := make([]*Fire, len(m.fires))
	copy(out, m.fires)
	return out
}

// Lords returns the squad lords on this map.
func (m *Map) Lords() []*Lord {
	out := make([]*Lord, len(m.lords))
	copy(out, m.lords)
	return out
}

// Edifice returns the building occupying c, or nil.
func (m *Map) Edifice(c geom.IntVec) *Thing {
	for _, t := range m.cellThings(c) {
		if t.Def.Edifice && !t.Destroyed {
			return t
		}
	}
	return nil
}

// HoldsRoof reports whether the edifice at c supports a roof or blocks passage.
func (m *Map) HoldsRoof(c geom.IntVec) bool {
	e := m.Edifice(c)
	return e != nil && (e.Def.HoldsRoof || e.Def.Impassable)
}

// Walkable reports whether a pawn can path through c.
func (m *Map) Walkable(c geom.IntVec) bool {
	if !m.InBounds(c) {
		return false
	}
	if t := m.TerrainAt(c); t != nil && t.Impassable {
		return false
	}
	for _, th := range m.cellThings(c) {
		if th.Def.Impassable {
			return false
		}
	}
	return true
}

// Standable reports whether a pawn can stand still on c.
func (m *Map) Standable(c geom.IntVec) bool {
	if !m.Walkable(c) {
		return false
	}
	for _, th := range m.cellThings(c) {
		if th.Def.PassThrough {
			return false
		}
	}
	return true
}

// Spawn places t at c. An existing edifice is wiped when t is an edifice itself.
func (m *Map) Spawn(t *Thing, c geom.IntVec, rot geom.Rot4) (*Thing, error) {
	if t == nil || t.Def == nil {
		return nil, ErrNoDef
	}
	if !m.InBounds(c) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if t.Def.Edifice {
		if existing := m.Edifice(c); existing != nil {
			m.Destroy(existing)
		}
	}

	t.ID = m.nextID
	m.nextID++
	t.Position = c
	t.Rotation = rot
	t.Spawned = true
	t.Destroyed = false
	if t.HitPoints <= 0 {
		t.HitPoints = t.MaxHitPoints()
	}

	idx := m.index(c)
	m.cells[idx] = append(m.cells[idx], t)
	m.things = append(m.things, t)
	return t, nil
}

// Destroy removes t from the map.
func (m *Map) Destroy(t *Thing) {
	if t == nil || t.Destroyed {
		return
	}
	t.Destroyed = true
	t.HitPoints = 0
	if t.MannedBy != nil {
		t.MannedBy.Job = nil
		t.MannedBy = nil
	}
	if !t.Spawned || !m.InBounds(t.Position) {
		return
	}
	t.Spawned = false

	idx := m.index(t.Position)
	list := m.cells[idx]
	for i, other := range list {
		if other == t {
			m.cells[idx] = append(list[:i], list[i+1:]...)
			break
		}
	}
	for i, other := range m.things {
		if other == t {
			m.things = append(m.things[:i], m.things[i+1:]...)
			break
		}
	}
}

// TakeDamage removes hit points and destroys t when they run out.
func (m *Map) TakeDamage(t *Thing, amount float64) (destroyed bool) {
	if t == nil || t.Destroyed || t.Def == nil || !t.Def.UseHitPoints {
		return false
	}
	t.HitPoints -= int(amount + 0.5)
	if t.HitPoints <= 0 {
		m.Destroy(t)
		return true
	}
	return false
}

// hasItem reports whether c already holds a loose item.
func (m *Map) hasItem(c geom.IntVec) bool {
	for _, th := range m.cellThings(c) {
		if th.Def.Category == defs.CategoryItem {
			return true
		}
	}
	return false
}

func (m *Map) canPlaceItemAt(c geom.IntVec) bool {
	return m.Walkable(c) && !m.hasItem(c)
}

// TryPlaceThing spawns a loose thing at c or, in PlaceNear mode, at the closest
// free cell. Returns the cell used.
func (m *Map) TryPlaceThing(t *Thing, c geom.IntVec, mode PlaceMode) (geom.IntVec, bool) {
	if t == nil || t.Def == nil || !m.InBounds(c) {
		return geom.Invalid, false
	}
	if mode == PlaceDirect {
		if !m.Walkable(c) {
			return geom.Invalid, false
		}
		if _, err := m.Spawn(t, c, geom.North); err != nil {
			return geom.Invalid, false
		}
		return c, true
	}

	for _, cell := range RadialCells(c, nearSearchRadius) {
		if !m.InBounds(cell) || !m.canPlaceItemAt(cell) {
			continue
		}
		if _, err := m.Spawn(t, cell, geom.North); err == nil {
			return cell, true
		}
	}
	return geom.Invalid, false
}

// CanStartFire reports whether fire is allowed to start at c.
func (m *Map) CanStartFire(c geom.IntVec) bool {
	if !m.InBounds(c) {
		return false
	}
	if t := m.TerrainAt(c); t != nil && t.Water {
		return false
	}
	if e := m.Edifice(c); e != nil && e.Def.Impassable {
		return false
	}
	for _, f := range m.fires {
		if f.Position == c {
			return false
		}
	}
	// Open sky in heavy rain puts fires out before they catch
	if m.RainRate >= 0.5 && !m.Roofed(c) {
		return false
	}
	return true
}

// TryStartFire lights a fire of the given size at c.
func (m *Map) TryStartFire(c geom.IntVec, size float64) bool {
	if !m.CanStartFire(c) {
		return false
	}
	m.fires = append(m.fires, &Fire{Position: c, Size: size})
	return true
}

// MakeFilth adds a layer of filth to c, stacking onto existing filth of the same def.
func (m *Map) MakeFilth(c geom.IntVec, def *defs.ThingDef) bool {
	if def == nil || !m.Walkable(c) {
		return false
	}
	for _, th := range m.cellThings(c) {
		if th.Def == def {
			if th.StackCount >= MaxFilthThickness {
				return false
			}
			th.StackCount++
			return true
		}
	}
	_, err := m.Spawn(NewThing(def, nil), c, geom.North)
	return err == nil
}

// SpawnPawn places a pawn at c.
func (m *Map) SpawnPawn(p *Pawn, c geom.IntVec) error {
	if !m.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	p.ID = m.nextID
	m.nextID++
	p.Position = c
	p.Spawned = true
	m.pawns = append(m.pawns, p)
	return nil
}

// AddLord registers a squad lord.
func (m *Map) AddLord(l *Lord) {
	m.lords = append(m.lords, l)
}

// ClosewalkCellNear picks a random walkable cell within radius of center,
// falling back to center itself.
func (m *Map) ClosewalkCellNear(center geom.IntVec, radius int, rng *rand.Rand) geom.IntVec {
	var candidates []geom.IntVec
	for _, c := range RadialCells(center, radius) {
		if m.Standable(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		if m.InBounds(center) {
			return center
		}
		return m.Center()
	}
	return candidates[rng.Intn(len(candidates))]
}

// RadialCells lists cells within radius of center, ring by ring outward.
func RadialCells(center geom.IntVec, radius int) []geom.IntVec {
	cells := []geom.IntVec{center}
	r2 := radius * radius
	for ring := 1; ring <= radius; ring++ {
		for dz := -ring; dz <= ring; dz++ {
			for dx := -ring; dx <= ring; dx++ {
				if max(abs(dx), abs(dz)) != ring {
					continue
				}
				if dx*dx+dz*dz > r2 {
					continue
				}
				cells = append(cells, geom.IntVec{X: center.X + dx, Z: center.Z + dz})
			}
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
