// Package geom provides the integer cell, rotation and rectangle types shared by
// the map model and the generation passes.
package geom

import (
	"fmt"
	"math/rand"
)

// IntVec is a cell coordinate on a tile map. Z grows "north".
type IntVec struct {
	X int
	Z int
}

// Invalid marks a cell that could not be resolved.
var Invalid = IntVec{X: -1000, Z: -1000}

// Cardinals are the four orthogonal neighbour offsets.
var Cardinals = []IntVec{
	{X: 0, Z: 1},
	{X: 1, Z: 0},
	{X: 0, Z: -1},
	{X: -1, Z: 0},
}

// Add returns v+o.
func (v IntVec) Add(o IntVec) IntVec {
	return IntVec{X: v.X + o.X, Z: v.Z + o.Z}
}

// Sub returns v-o.
func (v IntVec) Sub(o IntVec) IntVec {
	return IntVec{X: v.X - o.X, Z: v.Z - o.Z}
}

// IsValid reports whether v is not the Invalid sentinel.
func (v IntVec) IsValid() bool {
	return v != Invalid
}

// DistanceSquared returns the squared euclidean distance between two cells.
func (v IntVec) DistanceSquared(o IntVec) int {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return dx*dx + dz*dz
}

func (v IntVec) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Z)
}

// Rot4 is one of the four cardinal facings.
type Rot4 int

const (
	North Rot4 = iota
	East
	South
	West
)

// NewRot4 normalises any integer into a valid facing.
func NewRot4(i int) Rot4 {
	r := i % 4
	if r < 0 {
		r += 4
	}
	return Rot4(r)
}

func (r Rot4) String() string {
	switch r {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// CellRect is an inclusive rectangle of cells.
type CellRect struct {
	MinX, MinZ int
	MaxX, MaxZ int
}

// CenteredOn returns a width x height rect centred on c.
func CenteredOn(c IntVec, width, height int) CellRect {
	minX := c.X - width/2
	minZ := c.Z - height/2
	return CellRect{
		MinX: minX,
		MinZ: minZ,
		MaxX: minX + width - 1,
		MaxZ: minZ + height - 1,
	}
}

// Width returns the number of columns.
func (r CellRect) Width() int {
	if r.MaxX < r.MinX {
		return 0
	}
	return r.MaxX - r.MinX + 1
}

// Height returns the number of rows.
func (r CellRect) Height() int {
	if r.MaxZ < r.MinZ {
		return 0
	}
	return r.MaxZ - r.MinZ + 1
}

// Area returns the number of cells.
func (r CellRect) Area() int {
	return r.Width() * r.Height()
}

// IsEmpty reports whether the rect contains no cells.
func (r CellRect) IsEmpty() bool {
	return r.Area() == 0
}

// CenterCell returns the middle cell (rounded towards the minimum corner).
func (r CellRect) CenterCell() IntVec {
	return IntVec{X: r.MinX + r.Width()/2, Z: r.MinZ + r.Height()/2}
}

// Contains reports whether c lies inside the rect.
func (r CellRect) Contains(c IntVec) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Z >= r.MinZ && c.Z <= r.MaxZ
}

// ExpandedBy grows the rect by n cells on every side.
func (r CellRect) ExpandedBy(n int) CellRect {
	if r.IsEmpty() {
		return r
	}
	return CellRect{MinX: r.MinX - n, MinZ: r.MinZ - n, MaxX: r.MaxX + n, MaxZ: r.MaxZ + n}
}

// ClipTo returns the intersection with a sizeX x sizeZ map.
func (r CellRect) ClipTo(sizeX, sizeZ int) CellRect {
	out := r
	if out.MinX < 0 {
		out.MinX = 0
	}
	if out.MinZ < 0 {
		out.MinZ = 0
	}
	if out.MaxX > sizeX-1 {
		out.MaxX = sizeX - 1
	}
	if out.MaxZ > sizeZ-1 {
		out.MaxZ = sizeZ - 1
	}
	return out
}

// Cells returns every cell, row by row.
func (r CellRect) Cells() []IntVec {
	if r.IsEmpty() {
		return nil
	}
	cells := make([]IntVec, 0, r.Area())
	for z := r.MinZ; z <= r.MaxZ; z++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			cells = append(cells, IntVec{X: x, Z: z})
		}
	}
	return cells
}

// EdgeCells returns the perimeter cells without duplicates.
func (r CellRect) EdgeCells() []IntVec {
	if r.IsEmpty() {
		return nil
	}
	var cells []IntVec
	for x := r.MinX; x <= r.MaxX; x++ {
		cells = append(cells, IntVec{X: x, Z: r.MinZ})
		if r.MaxZ != r.MinZ {
			cells = append(cells, IntVec{X: x, Z: r.MaxZ})
		}
	}
	for z := r.MinZ + 1; z < r.MaxZ; z++ {
		cells = append(cells, IntVec{X: r.MinX, Z: z})
		if r.MaxX != r.MinX {
			cells = append(cells, IntVec{X: r.MaxX, Z: z})
		}
	}
	return cells
}

// IsEdge reports whether c lies on the perimeter of the rect.
func (r CellRect) IsEdge(c IntVec) bool {
	if !r.Contains(c) {
		return false
	}
	return c.X == r.MinX || c.X == r.MaxX || c.Z == r.MinZ || c.Z == r.MaxZ
}

// RandomCell returns a uniformly chosen cell of the rect.
func (r CellRect) RandomCell(rng *rand.Rand) IntVec {
	if r.IsEmpty() {
		return Invalid
	}
	return IntVec{
		X: r.MinX + rng.Intn(r.Width()),
		Z: r.MinZ + rng.Intn(r.Height()),
	}
}

func (r CellRect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.MinX, r.MinZ, r.MaxX, r.MaxZ)
}

// FloatRange is an inclusive range of floats used for damage and injury rolls.
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// RandomIn draws a value uniformly from the range.
func (f FloatRange) RandomIn(rng *rand.Rand) float64 {
	if f.Max <= f.Min {
		return f.Min
	}
	return f.Min + rng.Float64()*(f.Max-f.Min)
}

// IntRange is an inclusive range of ints.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// RandomIn draws a value uniformly from the range.
func (r IntRange) RandomIn(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts f to [0, 1].
func Clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
