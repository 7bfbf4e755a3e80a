package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
)

const minHullSize = 7

// Grid symbols written by the generator.
const (
	symWall   = '#'
	symFloor  = '_'
	symDoor   = 'd'
	symBed    = 'b'
	symChair  = 'c'
	symShelf  = 's'
	symLamp   = 'l'
	symEngine = 'g'
	symMortar = 'M'
)

// ShipGenerator builds random two-compartment hulls in the grid layout format.
type ShipGenerator struct {
	rng     *rand.Rand
	minSize int
	maxSize int
}

// NewShipGenerator creates a generator drawing hull sizes from [minSize, maxSize].
func NewShipGenerator(seed int64, minSize, maxSize int) *ShipGenerator {
	return &ShipGenerator{
		rng:     rand.New(rand.NewSource(seed)),
		minSize: max(minHullSize, minSize),
		maxSize: max(minHullSize, maxSize),
	}
}

func (g *ShipGenerator) size() int {
	if g.maxSize <= g.minSize {
		return g.minSize
	}
	return g.minSize + g.rng.Intn(g.maxSize-g.minSize+1)
}

// Generate returns one layout. The hull is split by a bulkhead into a crew
// cabin (beds, chairs, lamp) and an engine room holding the grav engine.
func (g *ShipGenerator) Generate(name string) *layout.LayoutYAML {
	w, h := g.size(), g.size()
	grid := make([][]rune, h)
	for z := range grid {
		grid[z] = make([]rune, w)
		for x := range grid[z] {
			if x == 0 || z == 0 || x == w-1 || z == h-1 {
				grid[z][x] = symWall
			} else {
				grid[z][x] = symFloor
			}
		}
	}

	// Bulkhead with a door, leaving at least two rows on each side.
	split := 3 + g.rng.Intn(h-6)
	for x := 1; x < w-1; x++ {
		grid[split][x] = symWall
	}
	grid[split][1+g.rng.Intn(w-2)] = symDoor

	// Cabin above the bulkhead (grid line 0 is north).
	beds := 1 + g.rng.Intn(max(1, (w-2)/3))
	for i := 0; i < beds; i++ {
		grid[1][1+i*2] = symBed
	}
	g.place(grid, 1, split, symChair)
	g.place(grid, 1, split, symChair)
	g.place(grid, 1, split, symLamp)

	// Engine room below.
	engineZ := split + 1 + g.rng.Intn(h-split-2)
	engineX := 1 + g.rng.Intn(w-2)
	grid[engineZ][engineX] = symEngine
	g.place(grid, split+1, h-1, symShelf)
	if g.rng.Intn(3) == 0 {
		g.place(grid, split+1, h-1, symMortar)
	}

	lines := make([]string, h)
	for z, row := range grid {
		lines[z] = string(row)
	}

	// engine_z counts from the southern edge.
	ex, ez := engineX, h-1-engineZ
	return &layout.LayoutYAML{
		Name:    name,
		Label:   strings.ToLower(name) + " wreck",
		Width:   w,
		Height:  h,
		EngineX: &ex,
		EngineZ: &ez,
		Grid:    lines,
		Legend:  legend(),
	}
}

// place puts sym on a random free floor cell between rows top and bottom (exclusive).
func (g *ShipGenerator) place(grid [][]rune, top, bottom int, sym rune) bool {
	var free [][2]int
	for z := top; z < bottom; z++ {
		for x, r := range grid[z] {
			if r == symFloor {
				free = append(free, [2]int{x, z})
			}
		}
	}
	if len(free) == 0 {
		return false
	}
	c := free[g.rng.Intn(len(free))]
	grid[c[1]][c[0]] = sym
	return true
}

func legend() map[string]*layout.CellYAML {
	floor := func(objects ...layout.ObjectYAML) *layout.CellYAML {
		return &layout.CellYAML{Floor: "MetalTile", Objects: objects}
	}
	return map[string]*layout.CellYAML{
		string(symWall):   {Foundation: "Substructure", Objects: []layout.ObjectYAML{{Def: "Wall", Stuff: "Plasteel"}}},
		string(symFloor):  floor(),
		string(symDoor):   floor(layout.ObjectYAML{Def: "Door", Stuff: "Steel"}),
		string(symBed):    floor(layout.ObjectYAML{Def: "Bed", Stuff: "Steel"}),
		string(symChair):  floor(layout.ObjectYAML{Def: "DiningChair", Stuff: "Steel"}),
		string(symShelf):  floor(layout.ObjectYAML{Def: "Shelf", Stuff: "Steel"}),
		string(symLamp):   floor(layout.ObjectYAML{Def: "Lamp"}),
		string(symEngine): floor(layout.ObjectYAML{Def: "ShipGravEngine"}),
		string(symMortar): floor(layout.ObjectYAML{Def: "Mortar"}),
	}
}

// WriteLayoutYAML writes raw to path with a short header.
func WriteLayoutYAML(raw *layout.LayoutYAML, path string) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	header := fmt.Sprintf("# %s: generated by shipgen, edit freely\n", raw.Name)
	return os.WriteFile(path, append([]byte(header), data...), 0644)
}
