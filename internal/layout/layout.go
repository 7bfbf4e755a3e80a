// Package layout holds the authored ship blueprints crash sites are built from.
package layout

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
)

// ObjectEntry is one placeable object inside a cell.
type ObjectEntry struct {
	Def      string
	Stuff    string
	Rotation geom.Rot4
}

// Cell is one grid position of a layout.
type Cell struct {
	Foundation string
	Floor      string
	Objects    []ObjectEntry
}

// IsEmpty reports whether the cell places nothing.
func (c *Cell) IsEmpty() bool {
	return c == nil || (c.Foundation == "" && c.Floor == "" && len(c.Objects) == 0)
}

// ShipLayout is an immutable ship blueprint. Rows are indexed by z, cells by x.
type ShipLayout struct {
	Name   string
	Label  string
	Source string
	Width  int
	Height int
	Rows   [][]*Cell
	// EngineX/EngineZ locate the engine wreck; negative means the layout has none.
	EngineX int
	EngineZ int
}

// HasEngineMarker reports whether the layout declares an engine position.
func (l *ShipLayout) HasEngineMarker() bool {
	return l.EngineX >= 0 && l.EngineZ >= 0
}

// Area returns width times height.
func (l *ShipLayout) Area() int {
	return l.Width * l.Height
}

// CellAt returns the cell at (x, z) or nil.
func (l *ShipLayout) CellAt(x, z int) *Cell {
	if z < 0 || z >= len(l.Rows) {
		return nil
	}
	row := l.Rows[z]
	if x < 0 || x >= len(row) {
		return nil
	}
	return row[x]
}

// IsEmpty reports whether no cell places anything.
func (l *ShipLayout) IsEmpty() bool {
	for _, row := range l.Rows {
		for _, c := range row {
			if !c.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// CountObjects counts object entries whose def name satisfies match.
func (l *ShipLayout) CountObjects(match func(def string) bool) int {
	count := 0
	for _, row := range l.Rows {
		for _, c := range row {
			if c == nil {
				continue
			}
			for _, o := range c.Objects {
				if o.Def != "" && match(o.Def) {
					count++
				}
			}
		}
	}
	return count
}

// DisplayLabel returns the label with its source, when known.
func (l *ShipLayout) DisplayLabel() string {
	label := l.Label
	if label == "" {
		label = l.Name
	}
	if l.Source == "" {
		return label
	}
	return label + " (" + l.Source + ")"
}

// CountBeds counts objects that look like beds.
func (l *ShipLayout) CountBeds() int {
	return l.CountObjects(func(def string) bool {
		return defs.NameContainsAny(def, "bed")
	})
}

// CountSeats counts objects that look like chairs, seats or benches.
func (l *ShipLayout) CountSeats() int {
	return l.CountObjects(func(def string) bool {
		return defs.NameContainsAny(def, "chair", "seat", "bench")
	})
}

// MissingDefs lists the terrain and thing names the layout references that reg
// does not define, sorted and without duplicates.
func (l *ShipLayout) MissingDefs(reg *defs.Registry) []string {
	missing := mapset.New[string]()
	for _, row := range l.Rows {
		for _, c := range row {
			if c == nil {
				continue
			}
			for _, name := range []string{c.Foundation, c.Floor} {
				if _, ok := reg.Terrain(name); name != "" && !ok {
					missing.Put("terrain " + name)
				}
			}
			for _, o := range c.Objects {
				if _, ok := reg.Thing(o.Def); o.Def != "" && !ok {
					missing.Put("thing " + o.Def)
				}
				if _, ok := reg.Thing(o.Stuff); o.Stuff != "" && !ok {
					missing.Put("stuff " + o.Stuff)
				}
			}
		}
	}

	var out []string
	missing.Each(func(key string) {
		out = append(out, key)
	})
	sort.Strings(out)
	return out
}
